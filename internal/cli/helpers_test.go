package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/config"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/remote"
	"github.com/alexanderramin/gymform/internal/repository"
	"github.com/alexanderramin/gymform/internal/service"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	err error
}

func (f *fakeProfiles) SaveProfile(context.Context, *domain.FormData) (remote.SaveResult, error) {
	if f.err != nil {
		return remote.SaveResult{}, f.err
	}
	return remote.SaveResult{Success: true, Message: "saved"}, nil
}

type fakePlans struct {
	mu    sync.Mutex
	plans []domain.PlanType
	err   error
}

func (f *fakePlans) SendPlan(_ context.Context, plan domain.PlanType, _ *domain.FormData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, plan)
	return f.err
}

func (f *fakePlans) sent() []domain.PlanType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PlanType(nil), f.plans...)
}

type fakeProvider struct {
	err error
}

func (f *fakeProvider) CreateCheckout(_ context.Context, req payment.Request) (*payment.Checkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Checkout{SessionID: "cs_test_7", URL: "https://pay.example/cs_test_7", Plan: req.Plan}, nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (r *recordingTracker) Track(_ context.Context, e analytics.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingTracker) Recent(_ context.Context, limit int) ([]analytics.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]analytics.Event, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		out = append(out, r.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *recordingTracker) Close() error { return nil }

func (r *recordingTracker) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

// testEnv is an App wired to in-memory SQLite and fake remote services.
type testEnv struct {
	app       *App
	profiles  *fakeProfiles
	plans     *fakePlans
	provider  *fakeProvider
	tracker   *recordingTracker
	submitted repository.SubmissionRepo

	// releases counts cleanup calls made by the root command.
	releases int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	kv := repository.NewSQLiteKVRepo(database)
	subs := repository.NewSQLiteSubmissionRepo(database)

	env := &testEnv{
		profiles:  &fakeProfiles{},
		plans:     &fakePlans{},
		provider:  &fakeProvider{},
		tracker:   &recordingTracker{},
		submitted: subs,
	}

	cfg := config.Default()
	cfg.LoadingDuration = 10 * time.Second
	cfg.PlanDuration = 0
	cfg.AutoAdvanceDelay = 0

	now := testutil.ReferenceNow
	env.app = &App{
		Config:        cfg,
		Catalog:       survey.DefaultCatalog(),
		FormStore:     service.NewFormStore(kv, testutil.NewTestUoW(database), nil),
		Submissions:   service.NewSubmissionService(env.profiles, env.plans, subs, nil),
		Plans:         service.NewPlanService(env.plans, subs, nil),
		Checkout:      service.NewCheckoutService(env.provider, subs, nil),
		Tracker:       env.tracker,
		Now:           func() time.Time { return now },
		IsInteractive: func() bool { return false },
	}
	return env
}

// saveAnswers stores fd as the saved survey state.
func (e *testEnv) saveAnswers(t *testing.T, fd *domain.FormData) {
	t.Helper()
	e.app.FormStore.Save(context.Background(), fd)
}

// executeCmd runs the root command against env's App and captures output.
func executeCmd(t *testing.T, env *testEnv, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := NewRootCmd(func(context.Context, *config.Config) (*App, func(), error) {
		return env.app, func() { env.releases++ }, nil
	})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// requireSubmission returns the only submission of kind.
func requireSubmission(t *testing.T, repo repository.SubmissionRepo, kind domain.SubmissionKind) *domain.Submission {
	t.Helper()
	rows, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	var found *domain.Submission
	for _, r := range rows {
		if r.Kind == kind {
			require.Nil(t, found, "more than one %s submission", kind)
			found = r
		}
	}
	require.NotNil(t, found, "no %s submission", kind)
	return found
}
