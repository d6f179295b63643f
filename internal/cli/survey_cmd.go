package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/gymform/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("the survey needs an interactive terminal")

func newSurveyCmd(app *App) *cobra.Command {
	var (
		step  int
		fresh bool
	)

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Run the interactive fitness survey",
		Long: `Run the interactive fitness survey.

Answers are saved after every step. Re-running the survey keeps them, use
--fresh to start over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			ctx := cmd.Context()
			if fresh {
				if err := app.FormStore.Reset(ctx); err != nil {
					return err
				}
			}
			if step != 0 && !app.Catalog.InRange(step) {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(fmt.Sprintf("step %d does not exist, starting at the first step", step)))
			}

			m := newTUIModel(ctx, app, step)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("running survey: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "open the survey at this step")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "forget saved answers before starting")
	return cmd
}
