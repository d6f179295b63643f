package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/remote"
	"github.com/alexanderramin/gymform/internal/repository"
)

type planService struct {
	sender   remote.PlanSender
	rec      recorder
	log      *slog.Logger
	observer UseCaseObserver
}

func NewPlanService(sender remote.PlanSender, submissions repository.SubmissionRepo, log *slog.Logger, observers ...UseCaseObserver) PlanService {
	log = loggerOrDiscard(log)
	return &planService{
		sender:   sender,
		rec:      newRecorder(submissions, log),
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

// RequestPlan posts the form to the endpoint for plan. The error is returned
// so the caller can block on it; it is also recorded.
func (s *planService) RequestPlan(ctx context.Context, plan domain.PlanType, fd *domain.FormData) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan.request", started, err, map[string]any{"plan": string(plan)})
	}()

	if !domain.ValidPlanType(string(plan)) {
		return fmt.Errorf("unknown plan %q", plan)
	}
	snapshot := fd.Clone()
	entry := &domain.Submission{
		Kind:   domain.SubmissionPlan,
		Target: "webhook_" + string(plan),
		Email:  strings.TrimSpace(snapshot.PersonalInfo.Email),
		Plan:   plan,
	}
	callErr := s.sender.SendPlan(ctx, plan, snapshot)
	s.rec.record(ctx, entry, callErr)
	if callErr != nil {
		s.log.WarnContext(ctx, "plan request failed", "plan", plan, "error", callErr)
		return fmt.Errorf("requesting %s: %w", plan.Label(), callErr)
	}
	return nil
}

func (s *planService) Claim(ctx context.Context, token string, fd *domain.FormData) (domain.PlanType, error) {
	sessionID, plan, err := payment.ParseReturnToken(token)
	if err != nil {
		return "", err
	}
	s.log.InfoContext(ctx, "claiming plan", "plan", plan, "session", sessionID)
	return plan, s.RequestPlan(ctx, plan, fd)
}
