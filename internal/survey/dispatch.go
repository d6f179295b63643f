package survey

import (
	"log/slog"
)

// RenderFunc renders one step of a category. local is the zero-based index
// of the step within its category.
type RenderFunc[T any] func(step Step, local int) T

// Dispatcher maps a linear step number to the renderer registered for its
// category.
type Dispatcher[T any] struct {
	catalog   *Catalog
	renderers map[Category]RenderFunc[T]
	log       *slog.Logger
}

// NewDispatcher creates an empty dispatcher. log may be nil.
func NewDispatcher[T any](catalog *Catalog, log *slog.Logger) *Dispatcher[T] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher[T]{catalog: catalog, renderers: make(map[Category]RenderFunc[T]), log: log}
}

// Register sets the renderer for category, replacing any previous one.
func (d *Dispatcher[T]) Register(category Category, fn RenderFunc[T]) {
	d.renderers[category] = fn
}

// Dispatch renders step. It returns the zero value and false when step is
// out of range or its category has no renderer.
func (d *Dispatcher[T]) Dispatch(step int) (T, bool) {
	var zero T
	s, ok := d.catalog.Step(step)
	if !ok {
		d.log.Debug("dispatch: step out of range", "step", step, "total", d.catalog.Total())
		return zero, false
	}
	fn, ok := d.renderers[s.Category]
	if !ok {
		d.log.Debug("dispatch: no renderer", "step", step, "category", s.Category)
		return zero, false
	}
	return fn(s, d.catalog.LocalStepNumber(step)), true
}
