package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func TestReturnToken_RoundTrip(t *testing.T) {
	for _, plan := range domain.PlanTypes {
		token := BuildReturnToken("cs_test_a1B2c3", plan)
		session, got, err := ParseReturnToken(token)
		require.NoError(t, err, token)
		assert.Equal(t, "cs_test_a1B2c3", session)
		assert.Equal(t, plan, got)
	}
}

func TestParseReturnToken_Invalid(t *testing.T) {
	for _, token := range []string{"", "nounderscore", "_meal", "cs_test_", "cs_test_123_gold"} {
		_, _, err := ParseReturnToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestConfig_PriceFor(t *testing.T) {
	cfg := Config{PriceWorkout: "price_w", PriceCombined: "price_c"}

	p, err := cfg.PriceFor(domain.PlanWorkout)
	require.NoError(t, err)
	assert.Equal(t, "price_w", p)

	_, err = cfg.PriceFor(domain.PlanMeal)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = cfg.PriceFor("gold")
	assert.Error(t, err)
}

func TestConfig_SuccessURL(t *testing.T) {
	cfg := Config{SuccessURL: "https://gym.example.com/success?token={TOKEN}"}
	assert.Equal(t, "https://gym.example.com/success?token={CHECKOUT_SESSION_ID}_meal", cfg.successURL(domain.PlanMeal))

	cfg.SuccessURL = "https://gym.example.com/success?ref=tui"
	assert.Equal(t, "https://gym.example.com/success?ref=tui&token={CHECKOUT_SESSION_ID}_workout", cfg.successURL(domain.PlanWorkout))
}

func newStripeBackend(t *testing.T, handler http.HandlerFunc) *stripe.Backends {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:           stripe.String(srv.URL),
		HTTPClient:    srv.Client(),
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
}

func TestStripeProvider_CreateCheckout(t *testing.T) {
	var form url.Values
	backends := newStripeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
	})

	p := NewStripeProvider(Config{
		SecretKey:    "sk_test_x",
		PriceMeal:    "price_meal",
		SuccessURL:   "https://gym.example.com/success?token={TOKEN}",
		CancelURL:    "https://gym.example.com/cancel",
	}, backends)

	co, err := p.CreateCheckout(context.Background(), Request{Plan: domain.PlanMeal, Email: "maria@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", co.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", co.URL)
	assert.Equal(t, "cs_test_123_meal", co.Token())

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "price_meal", form.Get("line_items[0][price]"))
	assert.Equal(t, "1", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "maria@example.com", form.Get("customer_email"))
	assert.Equal(t, "meal", form.Get("metadata[plan]"))
	assert.Equal(t, "https://gym.example.com/success?token={CHECKOUT_SESSION_ID}_meal", form.Get("success_url"))
}

func TestStripeProvider_NotConfigured(t *testing.T) {
	p := NewStripeProvider(Config{PriceMeal: "price_meal"}, nil)
	_, err := p.CreateCheckout(context.Background(), Request{Plan: domain.PlanMeal})
	assert.ErrorIs(t, err, ErrNotConfigured)

	p = NewStripeProvider(Config{SecretKey: "sk_test_x"}, nil)
	_, err = p.CreateCheckout(context.Background(), Request{Plan: domain.PlanCombined})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStripeProvider_APIError(t *testing.T) {
	backends := newStripeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price: 'price_gone'"}}`))
	})

	p := NewStripeProvider(Config{SecretKey: "sk_test_x", PriceWorkout: "price_gone"}, backends)
	_, err := p.CreateCheckout(context.Background(), Request{Plan: domain.PlanWorkout})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such price")
}
