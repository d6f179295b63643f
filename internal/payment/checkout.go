// Package payment creates hosted checkout sessions for plan purchases.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// ErrNotConfigured is returned when the secret key or a plan price is missing.
var ErrNotConfigured = errors.New("payment provider not configured")

// TokenPlaceholder in a success URL is replaced by the return token.
const TokenPlaceholder = "{TOKEN}"

// Config holds the Stripe key, one price per plan and the redirect URLs.
type Config struct {
	SecretKey     string
	PriceWorkout  string
	PriceMeal     string
	PriceCombined string
	SuccessURL    string
	CancelURL     string
}

// PriceFor returns the Stripe price ID configured for plan.
func (c Config) PriceFor(plan domain.PlanType) (string, error) {
	var price string
	switch plan {
	case domain.PlanWorkout:
		price = c.PriceWorkout
	case domain.PlanMeal:
		price = c.PriceMeal
	case domain.PlanCombined:
		price = c.PriceCombined
	default:
		return "", fmt.Errorf("unknown plan %q", plan)
	}
	if price == "" {
		return "", fmt.Errorf("no price for %s plan: %w", plan, ErrNotConfigured)
	}
	return price, nil
}

// successURL embeds the return token. Stripe substitutes the literal
// {CHECKOUT_SESSION_ID} with the real session ID on redirect.
func (c Config) successURL(plan domain.PlanType) string {
	token := BuildReturnToken("{CHECKOUT_SESSION_ID}", plan)
	if strings.Contains(c.SuccessURL, TokenPlaceholder) {
		return strings.ReplaceAll(c.SuccessURL, TokenPlaceholder, token)
	}
	sep := "?"
	if strings.Contains(c.SuccessURL, "?") {
		sep = "&"
	}
	return c.SuccessURL + sep + "token=" + token
}

// Request describes one purchase.
type Request struct {
	Plan  domain.PlanType
	Email string
}

// Checkout is a created session the user must visit to pay.
type Checkout struct {
	SessionID string
	URL       string
	Plan      domain.PlanType
}

// Token returns the return token the success redirect will carry.
func (c *Checkout) Token() string {
	return BuildReturnToken(c.SessionID, c.Plan)
}

// Provider creates checkout sessions.
type Provider interface {
	CreateCheckout(ctx context.Context, req Request) (*Checkout, error)
}

// StripeProvider implements Provider with Stripe Checkout in payment mode.
type StripeProvider struct {
	cfg Config
	api *client.API
}

// NewStripeProvider creates a provider. backends may be nil to use Stripe's
// production endpoints.
func NewStripeProvider(cfg Config, backends *stripe.Backends) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &StripeProvider{cfg: cfg, api: api}
}

func (p *StripeProvider) CreateCheckout(ctx context.Context, req Request) (*Checkout, error) {
	if p.cfg.SecretKey == "" {
		return nil, fmt.Errorf("create checkout: %w", ErrNotConfigured)
	}
	price, err := p.cfg.PriceFor(req.Plan)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.cfg.successURL(req.Plan)),
		CancelURL:  stripe.String(p.cfg.CancelURL),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("plan", string(req.Plan))

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	return &Checkout{SessionID: sess.ID, URL: sess.URL, Plan: req.Plan}, nil
}
