package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
)

// WebhookConfig holds one plan-generation endpoint per plan type.
type WebhookConfig struct {
	WorkoutURL  string
	MealURL     string
	CombinedURL string
	Timeout     time.Duration
}

// URL returns the endpoint for plan, or "" when none is configured.
func (c WebhookConfig) URL(plan domain.PlanType) string {
	switch plan {
	case domain.PlanWorkout:
		return c.WorkoutURL
	case domain.PlanMeal:
		return c.MealURL
	case domain.PlanCombined:
		return c.CombinedURL
	default:
		return ""
	}
}

// PlanSender asks the plan generator to build and deliver a plan.
type PlanSender interface {
	SendPlan(ctx context.Context, plan domain.PlanType, fd *domain.FormData) error
}

// WebhookClient posts the whole FormData as JSON to the plan's webhook.
type WebhookClient struct {
	cfg  WebhookConfig
	post poster
}

// NewWebhookClient creates a WebhookClient. httpClient may be nil.
func NewWebhookClient(cfg WebhookConfig, observer Observer, httpClient *http.Client) *WebhookClient {
	return &WebhookClient{cfg: cfg, post: newPoster(httpClient, observer, cfg.Timeout)}
}

func (c *WebhookClient) SendPlan(ctx context.Context, plan domain.PlanType, fd *domain.FormData) error {
	target := c.cfg.URL(plan)
	if target == "" {
		return fmt.Errorf("%s webhook: %w", plan, ErrNotConfigured)
	}
	_, err := c.post.postJSON(ctx, "webhook_"+string(plan), target, nil, fd)
	return err
}
