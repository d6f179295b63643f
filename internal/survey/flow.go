package survey

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// AppState is the coarse screen the application is on.
type AppState string

const (
	StateForm    AppState = "form"
	StateLoading AppState = "loading"
	StateResults AppState = "results"
	StateSuccess AppState = "success"
)

// DefaultLoadingDuration is how long the simulated analysis runs after the
// wizard completes.
const DefaultLoadingDuration = 90 * time.Second

// ErrInvalidTransition is returned for a move the transition table forbids.
var ErrInvalidTransition = errors.New("invalid app state transition")

// validTransitions maps each source state to its legal targets. success is
// terminal; Reset bypasses the table.
var validTransitions = map[AppState]map[AppState]bool{
	StateForm:    {StateLoading: true},
	StateLoading: {StateResults: true, StateSuccess: true},
	StateResults: {StateLoading: true},
}

// IsValidTransition reports whether from -> to is legal.
func IsValidTransition(from, to AppState) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// LoadingPurpose says why the app is in the loading state.
type LoadingPurpose string

const (
	LoadingAnalysis LoadingPurpose = "analysis"
	LoadingPlan     LoadingPurpose = "plan"
)

// Flow drives the app-level state machine that follows wizard completion.
type Flow struct {
	mu           sync.Mutex
	state        AppState
	purpose      LoadingPurpose
	duration     time.Duration
	lastErr      error
	onTransition func(from, to AppState)
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithLoadingDuration overrides the simulated analysis duration.
func WithLoadingDuration(d time.Duration) FlowOption {
	return func(f *Flow) {
		if d > 0 {
			f.duration = d
		}
	}
}

// OnTransition registers a hook called after every state change.
func OnTransition(fn func(from, to AppState)) FlowOption {
	return func(f *Flow) { f.onTransition = fn }
}

// NewFlow returns a Flow in the form state.
func NewFlow(opts ...FlowOption) *Flow {
	f := &Flow{state: StateForm, duration: DefaultLoadingDuration}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Flow) State() AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Purpose returns why the app is loading. It is meaningful only in the
// loading state.
func (f *Flow) Purpose() LoadingPurpose {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purpose
}

// Duration returns the simulated analysis duration.
func (f *Flow) Duration() time.Duration { return f.duration }

// Err returns the error recorded by the last failed plan request, if any.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Complete moves form -> loading after the wizard finishes.
func (f *Flow) Complete() error {
	return f.move(StateLoading, LoadingAnalysis, nil)
}

// FinishLoading moves loading -> results once the analysis is done.
func (f *Flow) FinishLoading() error {
	if p := f.Purpose(); p != LoadingAnalysis {
		return fmt.Errorf("finish loading while waiting for %s: %w", p, ErrInvalidTransition)
	}
	return f.move(StateResults, "", nil)
}

// RequestPlan moves results -> loading while a plan is being requested.
func (f *Flow) RequestPlan() error {
	return f.move(StateLoading, LoadingPlan, nil)
}

// PlanDelivered moves loading -> success.
func (f *Flow) PlanDelivered() error {
	if p := f.Purpose(); p != LoadingPlan {
		return fmt.Errorf("plan delivered while loading %s: %w", p, ErrInvalidTransition)
	}
	return f.move(StateSuccess, "", nil)
}

// PlanFailed reverts loading -> results and records err for display.
func (f *Flow) PlanFailed(err error) error {
	if p := f.Purpose(); p != LoadingPlan {
		return fmt.Errorf("plan failed while loading %s: %w", p, ErrInvalidTransition)
	}
	return f.move(StateResults, "", err)
}

// Reset returns to the form state from anywhere.
func (f *Flow) Reset() {
	f.mu.Lock()
	from := f.state
	f.state = StateForm
	f.purpose = ""
	f.lastErr = nil
	hook := f.onTransition
	f.mu.Unlock()
	if hook != nil && from != StateForm {
		hook(from, StateForm)
	}
}

// Progress maps elapsed loading time to a 0..100 percentage, rising linearly
// over the configured duration.
func (f *Flow) Progress(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= f.duration {
		return 100
	}
	return int(elapsed * 100 / f.duration)
}

func (f *Flow) move(to AppState, purpose LoadingPurpose, cause error) error {
	f.mu.Lock()
	from := f.state
	if !IsValidTransition(from, to) {
		f.mu.Unlock()
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}
	f.state = to
	f.purpose = purpose
	f.lastErr = cause
	hook := f.onTransition
	f.mu.Unlock()
	if hook != nil {
		hook(from, to)
	}
	return nil
}
