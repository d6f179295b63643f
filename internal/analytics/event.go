// Package analytics records funnel events on an embedded NATS JetStream
// stream. It is the local side channel for pixel-style tracking: nothing in
// the survey waits on it and failures are only logged.
package analytics

import (
	"context"
	"time"

	"github.com/gosimple/slug"
)

// Funnel event names.
const (
	EventStepViewed       = "step_viewed"
	EventLead             = "lead"
	EventInitiateCheckout = "initiate_checkout"
	EventPurchase         = "purchase"
)

const subjectPrefix = "gymform.events"

// Event is one tracked funnel action.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PixelID   string    `json:"pixel_id,omitempty"`
	Step      int       `json:"step,omitempty"`
	StepName  string    `json:"step_name,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Subject returns the NATS subject for e, for example
// "gymform.events.step_viewed.body_type".
func Subject(e Event) string {
	s := subjectPrefix + "." + token(e.Name)
	if e.StepName != "" {
		s += "." + token(e.StepName)
	}
	return s
}

// token makes s safe as a single subject token.
func token(s string) string {
	t := slug.Make(s)
	if t == "" {
		return "unknown"
	}
	return t
}

// Tracker records events.
type Tracker interface {
	Track(ctx context.Context, e Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
	Close() error
}

// NoopTracker drops every event. Used when analytics is disabled.
type NoopTracker struct{}

func (NoopTracker) Track(context.Context, Event) error { return nil }
func (NoopTracker) Recent(context.Context, int) ([]Event, error) { return nil, nil }
func (NoopTracker) Close() error { return nil }
