package domain

import "time"

// SubmissionKind names the remote call a submission record describes.
type SubmissionKind string

const (
	SubmissionProfile SubmissionKind = "profile"
	SubmissionWebhook SubmissionKind = "webhook"
	SubmissionPlan    SubmissionKind = "plan"
	SubmissionPayment SubmissionKind = "checkout"
)

// SubmissionStatus is the outcome of one remote call.
type SubmissionStatus string

const (
	SubmissionOK      SubmissionStatus = "ok"
	SubmissionFailed  SubmissionStatus = "failed"
	SubmissionSkipped SubmissionStatus = "skipped"
)

// Submission is one row of the local outcome log. Remote calls are never
// retried; the log is how an operator sees what went wrong.
type Submission struct {
	ID        string
	Kind      SubmissionKind
	Target    string
	Status    SubmissionStatus
	Email     string
	Plan      PlanType
	Detail    string
	CreatedAt time.Time
}
