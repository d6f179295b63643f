package cli

import (
	"sync"
	"time"

	"github.com/alexanderramin/gymform/internal/survey"
	tea "github.com/charmbracelet/bubbletea"
)

// clockFireMsg delivers a timer scheduled on a tuiClock.
type clockFireMsg struct{ id int }

// tuiClock is a survey.Clock whose timers are tea.Tick commands. Callbacks
// run inside Update when their clockFireMsg arrives, so navigator actions
// never race the render loop.
type tuiClock struct {
	mu      sync.Mutex
	now     func() time.Time
	seq     int
	pending map[int]func()
	cmds    []tea.Cmd
}

var _ survey.Clock = (*tuiClock)(nil)

func newTUIClock(now func() time.Time) *tuiClock {
	return &tuiClock{now: now, pending: make(map[int]func())}
}

func (c *tuiClock) Now() time.Time { return c.now() }

func (c *tuiClock) AfterFunc(d time.Duration, fn func()) survey.CancelFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.pending[id] = fn
	c.cmds = append(c.cmds, tea.Tick(d, func(time.Time) tea.Msg { return clockFireMsg{id: id} }))
	return func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}
}

// fire runs the callback registered under id. Cancelled or unknown timers
// report false.
func (c *tuiClock) fire(id int) bool {
	c.mu.Lock()
	fn, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// takeCmds hands over the tick commands scheduled since the last call.
func (c *tuiClock) takeCmds() []tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmds := c.cmds
	c.cmds = nil
	return cmds
}

// lastID returns the id of the most recently scheduled timer.
func (c *tuiClock) lastID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
