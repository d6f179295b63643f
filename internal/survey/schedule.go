package survey

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. Calling it more than once is safe.
type CancelFunc func()

// Clock schedules delayed callbacks. Every scheduled task hands back a
// cancel token owned by whoever started it.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// RealClock schedules with time.AfterFunc.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualClock is a Clock whose time only moves when Advance is called.
// Due callbacks run synchronously inside Advance, in deadline order.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id int
	at time.Time
	fn func()
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, tasks: make(map[int]*manualTask)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) CancelFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.tasks[id] = &manualTask{id: id, at: c.now.Add(d), fn: fn}
	return func() {
		c.mu.Lock()
		delete(c.tasks, id)
		c.mu.Unlock()
	}
}

// Pending returns the number of scheduled, uncancelled tasks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Advance moves time forward by d and fires every task that became due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTask
		for _, t := range c.tasks {
			if t.at.After(c.now) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.id < next.id) {
				next = t
			}
		}
		if next != nil {
			delete(c.tasks, next.id)
		}
		c.mu.Unlock()

		if next == nil {
			return
		}
		next.fn()
	}
}

// Task is a single cancellable slot: scheduling again replaces the pending
// callback, and Cancel guarantees the callback will not run afterwards.
type Task struct {
	mu     sync.Mutex
	clock  Clock
	gen    uint64
	cancel CancelFunc
}

// NewTask creates an empty task slot on clock.
func NewTask(clock Clock) *Task {
	if clock == nil {
		clock = RealClock{}
	}
	return &Task{clock: clock}
}

// Schedule replaces any pending callback with fn, due after d.
func (t *Task) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.gen == gen
		if live {
			t.cancel = nil
		}
		t.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel drops the pending callback, if any.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Pending reports whether a callback is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
