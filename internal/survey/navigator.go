package survey

import (
	"sync"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
)

// Direction records which way the last transition went. It only affects
// presentation.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionBack Direction = "back"
)

// Notifier surfaces validation notices. Dismiss clears whatever is showing.
type Notifier interface {
	Notify(n Notice)
	Dismiss()
}

// NoopNotifier discards notices.
type NoopNotifier struct{}

func (NoopNotifier) Notify(Notice) {}
func (NoopNotifier) Dismiss()      {}

// FormSource provides the answers the navigator validates against.
// *Session satisfies it.
type FormSource interface {
	Snapshot() *domain.FormData
}

// Outcome describes what a navigation action did.
type Outcome string

const (
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeCompleted Outcome = "completed"
	OutcomeWentBack  Outcome = "went_back"
	OutcomeNoop      Outcome = "noop"
)

// Result is returned by every navigation action.
type Result struct {
	Outcome   Outcome
	Step      int
	Direction Direction
}

// Navigator holds the current step and gates forward movement on the
// validator. It is safe for use from timer callbacks.
type Navigator struct {
	mu        sync.Mutex
	catalog   *Catalog
	validator *Validator
	source    FormSource
	notifier  Notifier
	complete  func()
	onChange  func(step int, dir Direction)

	step      int
	direction Direction
	auto      *Task
	closed    bool
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithInitialStep starts the navigator at step, clamped into range.
func WithInitialStep(step int) NavigatorOption {
	return func(n *Navigator) { n.step = step }
}

// WithNotifier sets where validation notices go.
func WithNotifier(notifier Notifier) NavigatorOption {
	return func(n *Navigator) {
		if notifier != nil {
			n.notifier = notifier
		}
	}
}

// WithCompletion sets the callback invoked when Next passes on the last step.
func WithCompletion(fn func()) NavigatorOption {
	return func(n *Navigator) { n.complete = fn }
}

// WithStepChange sets a hook called after every step change.
func WithStepChange(fn func(step int, dir Direction)) NavigatorOption {
	return func(n *Navigator) { n.onChange = fn }
}

// WithClock sets the clock used for auto-advance.
func WithClock(clock Clock) NavigatorOption {
	return func(n *Navigator) { n.auto = NewTask(clock) }
}

// NewNavigator creates a Navigator reading answers from source.
func NewNavigator(catalog *Catalog, validator *Validator, source FormSource, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		catalog:   catalog,
		validator: validator,
		source:    source,
		notifier:  NoopNotifier{},
		step:      1,
		direction: DirectionNext,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.auto == nil {
		n.auto = NewTask(RealClock{})
	}
	n.step = catalog.Clamp(n.step)
	return n
}

// Step returns the current step number.
func (n *Navigator) Step() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.step
}

// Direction returns the direction of the last transition.
func (n *Navigator) Direction() Direction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.direction
}

// Total returns the number of steps.
func (n *Navigator) Total() int { return n.catalog.Total() }

// Current returns the catalog entry for the current step.
func (n *Navigator) Current() Step {
	s, _ := n.catalog.Step(n.Step())
	return s
}

// HandleNext validates the current step and moves forward. On the last step
// it calls the completion callback instead of incrementing.
func (n *Navigator) HandleNext(isAutoAdvance bool) Result {
	n.auto.Cancel()

	n.mu.Lock()
	if n.closed {
		res := n.noopLocked()
		n.mu.Unlock()
		return res
	}
	step := n.step
	notifier := n.notifier
	n.mu.Unlock()

	notifier.Dismiss()
	if !n.validator.ValidateStep(step, n.source.Snapshot(), notifier.Notify, isAutoAdvance) {
		return Result{Outcome: OutcomeBlocked, Step: step, Direction: n.Direction()}
	}

	n.mu.Lock()
	if n.step != step || n.closed {
		// moved by another action while validating
		res := n.noopLocked()
		n.mu.Unlock()
		return res
	}
	if step >= n.catalog.Total() {
		complete := n.complete
		n.mu.Unlock()
		if complete != nil {
			complete()
		}
		return Result{Outcome: OutcomeCompleted, Step: step, Direction: DirectionNext}
	}
	n.step = step + 1
	n.direction = DirectionNext
	onChange := n.onChange
	res := Result{Outcome: OutcomeAdvanced, Step: n.step, Direction: n.direction}
	n.mu.Unlock()

	if onChange != nil {
		onChange(res.Step, res.Direction)
	}
	return res
}

// HandleBack moves one step back without validation. It is a no-op on step 1.
func (n *Navigator) HandleBack() Result {
	n.auto.Cancel()

	n.mu.Lock()
	if n.closed || n.step <= 1 {
		res := n.noopLocked()
		n.mu.Unlock()
		return res
	}
	n.step--
	n.direction = DirectionBack
	onChange := n.onChange
	notifier := n.notifier
	res := Result{Outcome: OutcomeWentBack, Step: n.step, Direction: n.direction}
	n.mu.Unlock()

	notifier.Dismiss()
	if onChange != nil {
		onChange(res.Step, res.Direction)
	}
	return res
}

// ScheduleAutoAdvance arranges HandleNext(true) after d, replacing any pending
// auto-advance. Any navigation or Close cancels it.
func (n *Navigator) ScheduleAutoAdvance(d time.Duration, done func(Result)) {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return
	}
	n.auto.Schedule(d, func() {
		res := n.HandleNext(true)
		if done != nil {
			done(res)
		}
	})
}

// AutoAdvancePending reports whether an auto-advance is scheduled.
func (n *Navigator) AutoAdvancePending() bool {
	return n.auto.Pending()
}

// Check runs the validator for the current step without notifying.
func (n *Navigator) Check() *Notice {
	return n.validator.Check(n.Step(), n.source.Snapshot())
}

// Close cancels pending timers. Later actions are no-ops.
func (n *Navigator) Close() {
	n.auto.Cancel()
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
}

func (n *Navigator) noopLocked() Result {
	return Result{Outcome: OutcomeNoop, Step: n.step, Direction: n.direction}
}
