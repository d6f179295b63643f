package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/repository"
)

type checkoutService struct {
	provider payment.Provider
	rec      recorder
	log      *slog.Logger
	observer UseCaseObserver
}

func NewCheckoutService(provider payment.Provider, submissions repository.SubmissionRepo, log *slog.Logger, observers ...UseCaseObserver) CheckoutService {
	log = loggerOrDiscard(log)
	return &checkoutService{
		provider: provider,
		rec:      newRecorder(submissions, log),
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *checkoutService) Begin(ctx context.Context, plan domain.PlanType, email string) (co *payment.Checkout, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "checkout.begin", started, err, map[string]any{"plan": string(plan)})
	}()

	if !domain.ValidPlanType(string(plan)) {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}
	email = strings.TrimSpace(email)
	entry := &domain.Submission{Kind: domain.SubmissionPayment, Target: "stripe_checkout", Email: email, Plan: plan}

	co, err = s.provider.CreateCheckout(ctx, payment.Request{Plan: plan, Email: email})
	if err == nil {
		entry.Detail = co.SessionID
	}
	s.rec.record(ctx, entry, err)
	if err != nil {
		s.log.WarnContext(ctx, "checkout failed", "plan", plan, "error", err)
		return nil, err
	}
	return co, nil
}
