// Package survey implements the wizard core: the step catalog, per-step
// validation, navigation, dispatch to category renderers and the coarse
// app-state machine that follows completion.
package survey

import (
	"fmt"
	"slices"
)

// Category groups a contiguous range of steps that share a renderer family.
type Category string

const (
	CategoryBasicInfo      Category = "basic_info"
	CategoryBodyAssessment Category = "body_assessment"
	CategoryMeasurements   Category = "measurements"
	CategoryActivity       Category = "activity"
	CategoryNutrition      Category = "nutrition"
	CategoryLifestyle      Category = "lifestyle"
	CategoryFinal          Category = "final"
)

// FieldKind tells a renderer which input shape a step needs.
type FieldKind string

const (
	KindSingle      FieldKind = "single"
	KindMulti       FieldKind = "multi"
	KindHeight      FieldKind = "height"
	KindWeights     FieldKind = "weights"
	KindPreferences FieldKind = "preferences"
	KindAssessments FieldKind = "assessments"
	KindPersonal    FieldKind = "personal"
	KindInfo        FieldKind = "info"
)

// Option is one selectable answer.
type Option struct {
	Label string
	Value string
}

// Step is an immutable catalog entry. The validation rule lives on the entry
// itself so step numbers are never re-encoded elsewhere.
type Step struct {
	ID                 int
	Category           Category
	Name               string
	Description        string
	RequiresValidation bool
	Kind               FieldKind
	Options            []Option
	AutoAdvance        bool

	rule Rule
}

// Rule returns the validation rule attached to the step, or nil.
func (s Step) Rule() Rule { return s.rule }

// HasOption reports whether value is one of the step's options.
func (s Step) HasOption(value string) bool {
	return slices.ContainsFunc(s.Options, func(o Option) bool { return o.Value == value })
}

// OptionLabel returns the display label for value, or value itself.
func (s Step) OptionLabel(value string) string {
	for _, o := range s.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Catalog is the ordered, validated list of steps.
type Catalog struct {
	steps  []Step
	starts map[Category]int
	order  []Category
}

// NewCatalog builds a catalog from steps and checks its invariants.
func NewCatalog(steps []Step) (*Catalog, error) {
	c := &Catalog{steps: slices.Clone(steps), starts: make(map[Category]int)}
	if err := c.Check(); err != nil {
		return nil, err
	}
	for _, s := range c.steps {
		if _, ok := c.starts[s.Category]; !ok {
			c.starts[s.Category] = s.ID
			c.order = append(c.order, s.Category)
		}
	}
	return c, nil
}

// Check verifies ids are contiguous 1..N, categories occupy contiguous
// ranges, and RequiresValidation agrees with the presence of a rule.
func (c *Catalog) Check() error {
	if len(c.steps) == 0 {
		return fmt.Errorf("catalog has no steps")
	}
	seen := make(map[Category]bool)
	var prev Category
	for i, s := range c.steps {
		if s.ID != i+1 {
			return fmt.Errorf("step at position %d has id %d, want %d", i, s.ID, i+1)
		}
		if s.Category == "" {
			return fmt.Errorf("step %d has no category", s.ID)
		}
		if s.Category != prev {
			if seen[s.Category] {
				return fmt.Errorf("step %d: category %s is not contiguous", s.ID, s.Category)
			}
			seen[s.Category] = true
			prev = s.Category
		}
		if s.RequiresValidation != (s.rule != nil) {
			return fmt.Errorf("step %d (%s): requiresValidation=%t disagrees with rule", s.ID, s.Name, s.RequiresValidation)
		}
	}
	return nil
}

// Total returns the number of steps.
func (c *Catalog) Total() int { return len(c.steps) }

// Steps returns a copy of every step in order.
func (c *Catalog) Steps() []Step { return slices.Clone(c.steps) }

// Categories returns the categories in step order.
func (c *Catalog) Categories() []Category { return slices.Clone(c.order) }

// InRange reports whether step is a valid step number.
func (c *Catalog) InRange(step int) bool {
	return step >= 1 && step <= len(c.steps)
}

// Step returns the entry for id.
func (c *Catalog) Step(id int) (Step, bool) {
	if !c.InRange(id) {
		return Step{}, false
	}
	return c.steps[id-1], true
}

// StepCategory returns the category of step, or false when out of range.
func (c *Catalog) StepCategory(step int) (Category, bool) {
	s, ok := c.Step(step)
	if !ok {
		return "", false
	}
	return s.Category, true
}

// CategoryStart returns the first step id of category, or 0 when unknown.
func (c *Catalog) CategoryStart(cat Category) int {
	return c.starts[cat]
}

// LocalStepNumber returns the zero-based index of step within its category's
// range, or -1 when step is out of range.
func (c *Catalog) LocalStepNumber(step int) int {
	cat, ok := c.StepCategory(step)
	if !ok {
		return -1
	}
	return step - c.starts[cat]
}

// Clamp maps any step number into [1, Total]. Out-of-range values go to 1
// so a bad deep link restarts the survey rather than skipping answers.
func (c *Catalog) Clamp(step int) int {
	if !c.InRange(step) {
		return 1
	}
	return step
}
