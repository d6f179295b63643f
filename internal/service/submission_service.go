package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/remote"
	"github.com/alexanderramin/gymform/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrMissingIdentity marks a profile save skipped for lack of name or email.
var ErrMissingIdentity = errors.New("name and email are required to save a profile")

// SubmissionOutcome reports what happened to each completion call. The form
// flow proceeds to results regardless; the outcome only feeds warnings.
type SubmissionOutcome struct {
	ProfileSaved   bool
	ProfileSkipped bool
	ProfileErr     error
	WebhookErr     error
}

// Err joins every failure, or returns nil when both calls succeeded. A
// skipped profile save is not a failure.
func (o SubmissionOutcome) Err() error {
	return errors.Join(o.ProfileErr, o.WebhookErr)
}

// Warnings returns one user-facing line per problem.
func (o SubmissionOutcome) Warnings() []string {
	var out []string
	if o.ProfileSkipped {
		out = append(out, "Your profile was not saved: "+ErrMissingIdentity.Error()+".")
	}
	if o.ProfileErr != nil {
		out = append(out, "Your profile could not be saved ("+remote.ErrorCode(o.ProfileErr)+").")
	}
	if o.WebhookErr != nil {
		out = append(out, "Plan preparation could not be started ("+remote.ErrorCode(o.WebhookErr)+").")
	}
	return out
}

type submissionService struct {
	profiles    remote.ProfileStore
	plans       remote.PlanSender
	submissions repository.SubmissionRepo
	rec         recorder
	log         *slog.Logger
	observer    UseCaseObserver
}

func NewSubmissionService(
	profiles remote.ProfileStore,
	plans remote.PlanSender,
	submissions repository.SubmissionRepo,
	log *slog.Logger,
	observers ...UseCaseObserver,
) SubmissionService {
	log = loggerOrDiscard(log)
	return &submissionService{
		profiles:    profiles,
		plans:       plans,
		submissions: submissions,
		rec:         newRecorder(submissions, log),
		log:         log,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Submit saves the profile and triggers the combined-plan webhook
// concurrently. Neither call is retried and neither blocks the other.
func (s *submissionService) Submit(ctx context.Context, fd *domain.FormData) SubmissionOutcome {
	started := time.Now()
	if fd == nil {
		fd = domain.NewFormData()
	}
	snapshot := fd.Clone()
	email := strings.TrimSpace(snapshot.PersonalInfo.Email)

	var (
		profileSaved, profileSkipped bool
		profileErr, webhookErr       error
	)

	var g errgroup.Group
	g.Go(func() error {
		entry := &domain.Submission{Kind: domain.SubmissionProfile, Target: "save_profile", Email: email}
		if !snapshot.HasIdentity() {
			profileSkipped = true
			s.log.WarnContext(ctx, "skipping profile save", "reason", ErrMissingIdentity)
			s.rec.skipped(ctx, entry, ErrMissingIdentity.Error())
			return nil
		}
		res, err := s.profiles.SaveProfile(ctx, snapshot)
		if err == nil && !res.Success {
			err = fmt.Errorf("save profile: %w: %s", remote.ErrRejected, res.Message)
		}
		if err != nil {
			s.log.WarnContext(ctx, "profile save failed", "error", err)
		}
		profileErr = err
		profileSaved = err == nil
		s.rec.record(ctx, entry, err)
		return nil
	})
	g.Go(func() error {
		entry := &domain.Submission{
			Kind:   domain.SubmissionWebhook,
			Target: "webhook_" + string(domain.PlanCombined),
			Email:  email,
			Plan:   domain.PlanCombined,
		}
		err := s.plans.SendPlan(ctx, domain.PlanCombined, snapshot)
		if err != nil {
			s.log.WarnContext(ctx, "completion webhook failed", "error", err)
		}
		webhookErr = err
		s.rec.record(ctx, entry, err)
		return nil
	})
	_ = g.Wait()

	out := SubmissionOutcome{
		ProfileSaved:   profileSaved,
		ProfileSkipped: profileSkipped,
		ProfileErr:     profileErr,
		WebhookErr:     webhookErr,
	}
	observe(ctx, s.observer, "submission.submit", started, out.Err(), map[string]any{
		"profile_saved":   out.ProfileSaved,
		"profile_skipped": out.ProfileSkipped,
	})
	return out
}

func (s *submissionService) List(ctx context.Context, limit int) ([]*domain.Submission, error) {
	return s.submissions.List(ctx, limit)
}

func (s *submissionService) Counts(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	return s.submissions.CountByStatus(ctx)
}
