package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/cli"
	"github.com/alexanderramin/gymform/internal/config"
	"github.com/alexanderramin/gymform/internal/db"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/remote"
	"github.com/alexanderramin/gymform/internal/repository"
	"github.com/alexanderramin/gymform/internal/service"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/mattn/go-isatty"
)

// buildApp wires every service from cfg. The returned cleanup closes the
// tracker, the database and the log file in that order.
func buildApp(ctx context.Context, cfg *config.Config) (*cli.App, func(), error) {
	logger, logFile, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	// Wire repositories
	kvRepo := repository.NewSQLiteKVRepo(database)
	submissionRepo := repository.NewSQLiteSubmissionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire remote clients
	observer := remote.NewLogObserver(logger)
	profiles := remote.NewSupabaseClient(remote.SupabaseConfig{
		URL:     cfg.Supabase.URL,
		Key:     cfg.Supabase.Key,
		Table:   cfg.Supabase.Table,
		Timeout: cfg.Webhook.Timeout,
	}, observer)
	webhooks := remote.NewWebhookClient(remote.WebhookConfig{
		WorkoutURL:  cfg.Webhook.WorkoutURL,
		MealURL:     cfg.Webhook.MealURL,
		CombinedURL: cfg.Webhook.CombinedURL,
		Timeout:     cfg.Webhook.Timeout,
	}, observer, nil)
	checkout := payment.NewStripeProvider(payment.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		PriceWorkout:  cfg.Stripe.PriceWorkout,
		PriceMeal:     cfg.Stripe.PriceMeal,
		PriceCombined: cfg.Stripe.PriceCombined,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	}, nil)

	// Wire services
	useCases := service.NewLogUseCaseObserver(logger)

	var tracker analytics.Tracker = analytics.NoopTracker{}
	if cfg.Analytics.Enabled {
		dir := filepath.Join(filepath.Dir(cfg.DBPath), "events")
		nt, err := analytics.StartNATSTracker(ctx, dir, cfg.Analytics.PixelID, logger)
		if err != nil {
			// Analytics is a side channel; the survey runs without it.
			logger.Warn("analytics disabled", "error", err)
		} else {
			tracker = nt
		}
	}

	app := &cli.App{
		Config:      cfg,
		Logger:      logger,
		Catalog:     survey.DefaultCatalog(),
		FormStore:   service.NewFormStore(kvRepo, uow, logger),
		Submissions: service.NewSubmissionService(profiles, webhooks, submissionRepo, logger, useCases),
		Plans:       service.NewPlanService(webhooks, submissionRepo, logger, useCases),
		Checkout:    service.NewCheckoutService(checkout, submissionRepo, logger, useCases),
		Tracker:     tracker,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	cleanup := func() {
		if err := tracker.Close(); err != nil {
			logger.Warn("closing analytics", "error", err)
		}
		if err := database.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
		logFile.Close()
	}
	return app, cleanup, nil
}
