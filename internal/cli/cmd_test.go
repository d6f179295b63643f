package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/config"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsCmd_ListsCatalog(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env, "steps")
	require.NoError(t, err)
	assert.Contains(t, out, "basic_info")
	assert.Contains(t, out, "personal_info")
	assert.Contains(t, out, "confirmation")
	assert.Contains(t, out, "33")
}

func TestStateCmd_ShowSavedAnswers(t *testing.T) {
	env := newTestEnv(t)
	env.saveAnswers(t, testutil.NewTestFormData())

	out, err := executeCmd(t, env, "state", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "maria@example.com")
	assert.Contains(t, out, "Maria")
	assert.Contains(t, out, "Get shaped")
}

func TestStateCmd_ResetForgetsEverything(t *testing.T) {
	env := newTestEnv(t)
	env.saveAnswers(t, testutil.NewTestFormData())

	out, err := executeCmd(t, env, "state", "email")
	require.NoError(t, err)
	assert.Contains(t, out, "maria@example.com")

	_, err = executeCmd(t, env, "state", "reset")
	require.NoError(t, err)

	_, err = executeCmd(t, env, "state", "email")
	assert.Error(t, err)
	assert.Nil(t, env.app.FormStore.Load(context.Background()).Age)
}

func TestValidateCmd(t *testing.T) {
	t.Run("empty answers fail", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := executeCmd(t, env, "validate")
		assert.ErrorIs(t, err, errValidationFailed)
		assert.Contains(t, out, "need attention")
	})

	t.Run("complete answers pass", func(t *testing.T) {
		env := newTestEnv(t)
		env.saveAnswers(t, testutil.NewTestFormData())
		out, err := executeCmd(t, env, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "steps pass")
	})

	t.Run("single step", func(t *testing.T) {
		env := newTestEnv(t)
		env.saveAnswers(t, testutil.NewTestFormData(testutil.WithHeight(300)))
		out, err := executeCmd(t, env, "validate", "--step", "10")
		assert.ErrorIs(t, err, errValidationFailed)
		assert.Contains(t, out, "between 100 and 250")
		assert.NotContains(t, out, "personal_info")
	})

	t.Run("unknown step", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := executeCmd(t, env, "validate", "--step", "99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestCheckoutCmd_CreatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.saveAnswers(t, testutil.NewTestFormData())

	out, err := executeCmd(t, env, "checkout", "--plan", "meal")
	require.NoError(t, err)
	assert.Contains(t, out, "https://pay.example/cs_test_7")
	assert.Contains(t, out, "Meal Plan")

	sub := requireSubmission(t, env.submitted, domain.SubmissionPayment)
	assert.Equal(t, domain.SubmissionOK, sub.Status)
	assert.Equal(t, "maria@example.com", sub.Email)
	assert.Equal(t, []string{analytics.EventInitiateCheckout}, env.tracker.names())
}

func TestCheckoutCmd_RejectsUnknownPlan(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env, "checkout", "--plan", "keto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workout, meal, combined")
}

func TestCheckoutCmd_ProviderNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.provider.err = payment.ErrNotConfigured

	_, err := executeCmd(t, env, "checkout", "--plan", "workout")
	assert.ErrorIs(t, err, payment.ErrNotConfigured)
	assert.Empty(t, env.tracker.names())

	sub := requireSubmission(t, env.submitted, domain.SubmissionPayment)
	assert.Equal(t, domain.SubmissionSkipped, sub.Status)
}

func TestClaimCmd(t *testing.T) {
	tests := []struct {
		name  string
		token string
		plan  domain.PlanType
	}{
		{"bare token", "cs_test_7_meal", domain.PlanMeal},
		{"success url", "http://localhost:8080/success?token=cs_test_7_combined", domain.PlanCombined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.saveAnswers(t, testutil.NewTestFormData())

			out, err := executeCmd(t, env, "claim", tt.token)
			require.NoError(t, err)
			assert.Contains(t, out, tt.plan.Label())
			assert.Contains(t, out, "maria@example.com")
			assert.Equal(t, []domain.PlanType{tt.plan}, env.plans.sent())
			assert.Equal(t, []string{analytics.EventPurchase}, env.tracker.names())
		})
	}
}

func TestClaimCmd_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env, "claim", "cs_test_7_keto")
	assert.ErrorIs(t, err, payment.ErrInvalidToken)
	assert.Empty(t, env.plans.sent())
}

func TestClaimCmd_WebhookFailure(t *testing.T) {
	env := newTestEnv(t)
	env.plans.err = errors.New("connection refused")

	_, err := executeCmd(t, env, "claim", "cs_test_7_workout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workout Plan")

	sub := requireSubmission(t, env.submitted, domain.SubmissionPlan)
	assert.Equal(t, domain.SubmissionFailed, sub.Status)
}

func TestSubmissionsCmd_ListsLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.submitted.Create(ctx, testutil.NewTestSubmission(domain.SubmissionProfile)))
	require.NoError(t, env.submitted.Create(ctx, testutil.NewTestSubmission(domain.SubmissionWebhook,
		testutil.WithSubmissionStatus(domain.SubmissionFailed))))

	out, err := executeCmd(t, env, "submissions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "profile")
	assert.Contains(t, out, "webhook")
	assert.Contains(t, out, "failed 1")
}

func TestEventsCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "No events tracked yet.")

	require.NoError(t, env.tracker.Track(context.Background(), analytics.Event{
		Name: analytics.EventStepViewed, Step: 3, StepName: "body_type", Timestamp: testutil.ReferenceNow,
	}))
	out, err = executeCmd(t, env, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "step_viewed")
	assert.Contains(t, out, "gymform.events.step_viewed.body_type")
}

func TestSurveyCmd_RequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env, "survey")
	assert.ErrorIs(t, err, errNotInteractive)
}

func TestConfigInit_RunsWithoutApp(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	root := NewRootCmd(func(context.Context, *config.Config) (*App, func(), error) {
		return nil, nil, errors.New("must not be called")
	})
	root.SetOut(new(nopWriter))
	root.SetArgs([]string{"config", "init"})
	require.NoError(t, root.Execute())

	path := filepath.Join(dir, "gymform", "gymform.yml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loading_duration: 1m30s")

	root.SetArgs([]string{"config", "init"})
	assert.Error(t, root.Execute(), "existing file without --force")
}

func TestRootCmd_ReleasesAppAfterEveryCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"success", []string{"steps"}, false},
		{"bad token", []string{"claim", "garbage"}, true},
		{"terminal required", []string{"survey"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := executeCmd(t, env, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, env.releases)
		})
	}
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "cs_1_meal", extractToken("  cs_1_meal "))
	assert.Equal(t, "cs_1_meal", extractToken("https://x.example/success?token=cs_1_meal&utm=1"))
	assert.Equal(t, "https://x.example/success", extractToken("https://x.example/success"))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
