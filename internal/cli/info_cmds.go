package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/gymform/internal/cli/formatter"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/spf13/cobra"
)

func newStepsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List every survey step with its category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSteps(app.Catalog.Steps()))
			return nil
		},
	}
}

func newStateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the saved survey answers",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the saved answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			fd := app.FormStore.Load(ctx)
			answered, validated := answeredSteps(app, fd)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFormState(fd, app.Catalog, answered, validated, app.FormStore.Email(ctx)))
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget every saved answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.FormStore.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Saved answers cleared."))
			return nil
		},
	}

	email := &cobra.Command{
		Use:   "email",
		Short: "Print the last email entered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := app.FormStore.Email(cmd.Context())
			if e == "" {
				return fmt.Errorf("no email saved yet")
			}
			fmt.Fprintln(cmd.OutOrStdout(), e)
			return nil
		},
	}

	cmd.AddCommand(show, reset, email)
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the saved answers step by step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fd := app.FormStore.Load(cmd.Context())
			v := app.validator()

			var checks []formatter.StepCheck
			for _, s := range app.Catalog.Steps() {
				if step != 0 && s.ID != step {
					continue
				}
				if !s.RequiresValidation && step == 0 {
					continue
				}
				checks = append(checks, formatter.StepCheck{Step: s, Notice: v.Check(s.ID, fd)})
			}
			if len(checks) == 0 {
				return fmt.Errorf("step %d does not exist (1-%d)", step, app.Catalog.Total())
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidation(checks))
			for _, c := range checks {
				if c.Notice != nil {
					return errValidationFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "validate only this step")
	return cmd
}

func newSubmissionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Inspect the log of remote calls",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			subs, err := app.Submissions.List(ctx, limit)
			if err != nil {
				return err
			}
			counts, err := app.Submissions.Counts(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatSubmissions(subs, app.now()))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSubmissionCounts(counts))
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum rows to show (0 for all)")

	cmd.AddCommand(list)
	return cmd
}

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List tracked funnel events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, err := app.Tracker.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(events, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum events to show (0 for all)")
	return cmd
}

// answeredSteps counts the validated steps that currently pass.
func answeredSteps(app *App, fd *domain.FormData) (answered, validated int) {
	v := app.validator()
	for _, s := range app.Catalog.Steps() {
		if !s.RequiresValidation {
			continue
		}
		validated++
		if v.Check(s.ID, fd) == nil {
			answered++
		}
	}
	return answered, validated
}

var errValidationFailed = errors.New("validation failed")
