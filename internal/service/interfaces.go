package service

import (
	"context"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
)

// FormStore persists the survey answers between runs. Save never fails
// loudly, so a FormStore can back a survey.Session directly.
type FormStore interface {
	Load(ctx context.Context) *domain.FormData
	Save(ctx context.Context, fd *domain.FormData)
	Email(ctx context.Context) string
	Reset(ctx context.Context) error
}

type SubmissionService interface {
	Submit(ctx context.Context, fd *domain.FormData) SubmissionOutcome
	List(ctx context.Context, limit int) ([]*domain.Submission, error)
	Counts(ctx context.Context) (map[domain.SubmissionStatus]int, error)
}

type PlanService interface {
	RequestPlan(ctx context.Context, plan domain.PlanType, fd *domain.FormData) error
	// Claim parses a checkout return token and requests the plan it names.
	Claim(ctx context.Context, token string, fd *domain.FormData) (domain.PlanType, error)
}

type CheckoutService interface {
	Begin(ctx context.Context, plan domain.PlanType, email string) (*payment.Checkout, error)
}
