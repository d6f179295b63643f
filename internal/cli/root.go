package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/config"
	"github.com/alexanderramin/gymform/internal/service"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/spf13/cobra"
)

// App holds the wired services and settings used by CLI commands.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Catalog     *survey.Catalog
	FormStore   service.FormStore
	Submissions service.SubmissionService
	Plans       service.PlanService
	Checkout    service.CheckoutService
	Tracker     analytics.Tracker

	// Now is the wall clock, swappable in tests.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (a *App) validator() *survey.Validator {
	return survey.NewValidator(a.Catalog, a.now)
}

// track records e, logging failures. Analytics never fails a command.
func track(ctx context.Context, app *App, e analytics.Event) {
	if app.Tracker == nil {
		return
	}
	if err := app.Tracker.Track(ctx, e); err != nil {
		app.logger().Warn("tracking event failed", "event", e.Name, "error", err)
	}
}

// Builder wires an App from loaded configuration. The cleanup function
// releases long-lived handles and is called once the command finishes.
type Builder func(ctx context.Context, cfg *config.Config) (*App, func(), error)

// skipAppAnnotation marks commands that run without a wired App.
const skipAppAnnotation = "gymform.skip-app"

// NewRootCmd creates the top-level "gymform" command. Configuration is loaded
// after flag parsing, then build wires the App for the chosen subcommand.
func NewRootCmd(build Builder) *cobra.Command {
	var (
		app     App
		cleanup func()
	)
	release := func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}

	root := &cobra.Command{
		Use:   "gymform",
		Short: "Fitness survey that turns your answers into a personal plan",
		Long: `gymform walks you through a short fitness survey, analyses your answers
and sells a personalised workout and meal plan.

Answers are saved locally after every step, so you can quit and resume.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			built, done, err := build(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("starting gymform: %w", err)
			}
			app = *built
			cleanup = done
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			release()
		},
	}

	pf := root.PersistentFlags()
	pf.String("db", "", "path to the local SQLite database")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file (default: discard)")

	root.AddCommand(
		newSurveyCmd(&app),
		newStepsCmd(&app),
		newStateCmd(&app),
		newValidateCmd(&app),
		newSubmissionsCmd(&app),
		newCheckoutCmd(&app),
		newClaimCmd(&app),
		newEventsCmd(&app),
		newConfigCmd(),
	)
	releaseAfterRun(root, release)
	return root
}

// releaseAfterRun makes every runnable command under cmd call release when
// it returns. Cobra skips post-run hooks once RunE fails.
func releaseAfterRun(cmd *cobra.Command, release func()) {
	for _, sub := range cmd.Commands() {
		releaseAfterRun(sub, release)
	}
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			defer release()
			return run(c, args)
		}
	}
}
