package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/cli/formatter"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// planValue is a pflag.Value restricted to known plan types.
type planValue domain.PlanType

var _ pflag.Value = (*planValue)(nil)

func (p *planValue) String() string { return string(*p) }
func (p *planValue) Type() string   { return "plan" }

func (p *planValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidPlanType(s) {
		names := make([]string, len(domain.PlanTypes))
		for i, pt := range domain.PlanTypes {
			names[i] = string(pt)
		}
		return fmt.Errorf("must be one of %s", strings.Join(names, ", "))
	}
	*p = planValue(s)
	return nil
}

func newCheckoutCmd(app *App) *cobra.Command {
	var (
		plan  planValue
		email string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Create a payment session for a plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if email == "" {
				email = app.FormStore.Email(ctx)
			}

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Creating checkout session...", app.interactive())
			co, err := app.Checkout.Begin(ctx, domain.PlanType(plan), email)
			stop()
			if err != nil {
				return fmt.Errorf("checkout: %w", err)
			}
			track(ctx, app, analytics.Event{Name: analytics.EventInitiateCheckout, Plan: string(plan)})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n", formatter.Bold("Pay for your"), formatter.StylePurple.Render(domain.PlanType(plan).Label()))
			fmt.Fprintf(out, "  %s\n\n", co.URL)
			fmt.Fprintln(out, formatter.Dim("After paying, run: gymform claim <token from the success page>"))
			return nil
		},
	}

	cmd.Flags().Var(&plan, "plan", "plan to buy: workout, meal or combined")
	cmd.Flags().StringVar(&email, "email", "", "email for the receipt (default: saved email)")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newClaimCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "claim TOKEN",
		Short: "Request the plan paid for with a checkout return token",
		Long: `Request the plan paid for with a checkout return token.

TOKEN is the "<session>_<plan>" value from the success page. The whole success
URL is accepted as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fd := app.FormStore.Load(ctx)

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Requesting your plan...", app.interactive())
			plan, err := app.Plans.Claim(ctx, extractToken(args[0]), fd)
			stop()
			if err != nil {
				return err
			}
			track(ctx, app, analytics.Event{Name: analytics.EventPurchase, Plan: string(plan)})

			to := fd.PersonalInfo.Email
			if to == "" {
				to = "you"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Your %s is on its way to %s.\n",
				formatter.StyleGreen.Render("✔"), plan.Label(), to)
			return nil
		},
	}
}

// extractToken accepts a bare token or a success URL carrying ?token=.
func extractToken(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	if tok := u.Query().Get("token"); tok != "" {
		return tok
	}
	return s
}
