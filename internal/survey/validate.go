package survey

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
)

// NoticeKind classifies a validation failure for the user.
type NoticeKind string

const (
	NoticeSelectionRequired NoticeKind = "selection_required"
	NoticeInvalidFormat     NoticeKind = "invalid_format"
	NoticeRequiredFields    NoticeKind = "required_fields"
	// NoticeRemoteError is raised outside validation, by remote calls whose
	// failure the user must see.
	NoticeRemoteError NoticeKind = "remote_error"
)

// Notice is a transient, dismissible user-facing message.
type Notice struct {
	Step    int
	Kind    NoticeKind
	Message string
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Kind, n.Message)
}

// Notify surfaces a notice to the user.
type Notify func(Notice)

// Rule checks one step's answers. It returns nil when the step passes.
type Rule func(fd *domain.FormData, now time.Time) *Notice

// Validator evaluates catalog rules against form data.
type Validator struct {
	catalog *Catalog
	now     func() time.Time
}

// NewValidator creates a Validator. now may be nil to use time.Now.
func NewValidator(catalog *Catalog, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{catalog: catalog, now: now}
}

// Check returns the notice for a failing step, or nil when it passes.
// It has no side effects.
func (v *Validator) Check(step int, fd *domain.FormData) *Notice {
	s, ok := v.catalog.Step(step)
	if !ok {
		return &Notice{Step: step, Kind: NoticeRequiredFields, Message: fmt.Sprintf("step %d does not exist", step)}
	}
	if !s.RequiresValidation || s.rule == nil {
		return nil
	}
	if fd == nil {
		fd = domain.NewFormData()
	}
	n := s.rule(fd, v.now())
	if n != nil {
		n.Step = step
	}
	return n
}

// ValidateStep reports whether step passes. On failure notify is called
// once, unless isAutoAdvance is set: auto-advancing steps already show
// inline feedback, so the failure only blocks progression.
func (v *Validator) ValidateStep(step int, fd *domain.FormData, notify Notify, isAutoAdvance bool) bool {
	n := v.Check(step, fd)
	if n == nil {
		return true
	}
	if notify != nil && !isAutoAdvance {
		notify(*n)
	}
	return false
}

// ── rule builders ────────────────────────────────────────────────────────────

func selectionRequired(msg string) *Notice {
	return &Notice{Kind: NoticeSelectionRequired, Message: msg}
}

func invalidFormat(msg string) *Notice {
	return &Notice{Kind: NoticeInvalidFormat, Message: msg}
}

func requiredFields(msg string) *Notice {
	return &Notice{Kind: NoticeRequiredFields, Message: msg}
}

// requireScalar fails when the selected field is nil or empty.
func requireScalar(get func(*domain.FormData) *string, msg string) Rule {
	return func(fd *domain.FormData, _ time.Time) *Notice {
		if p := get(fd); p == nil || strings.TrimSpace(*p) == "" {
			return selectionRequired(msg)
		}
		return nil
	}
}

// requireList fails on an empty list, or when "custom" is selected without
// the companion free text.
func requireList(get func(*domain.FormData) []string, custom func(*domain.FormData) string, msg string) Rule {
	return func(fd *domain.FormData, _ time.Time) *Notice {
		list := get(fd)
		if len(list) == 0 {
			return selectionRequired(msg)
		}
		if custom != nil && slices.Contains(list, domain.CustomOption) && strings.TrimSpace(custom(fd)) == "" {
			return requiredFields("Please describe your custom choice")
		}
		return nil
	}
}

const (
	minHeightCm = 100
	maxHeightCm = 250
)

func heightRule(fd *domain.FormData, _ time.Time) *Notice {
	if fd.Height == nil {
		return requiredFields("Please enter your height")
	}
	if h := *fd.Height; !(h >= minHeightCm && h <= maxHeightCm) {
		return invalidFormat(fmt.Sprintf("Height must be between %d and %d cm", minHeightCm, maxHeightCm))
	}
	return nil
}

func weightsRule(fd *domain.FormData, _ time.Time) *Notice {
	if fd.CurrentWeight == nil || fd.TargetWeight == nil {
		return requiredFields("Please enter both your current and target weight")
	}
	if !positiveWeight(*fd.CurrentWeight) || !positiveWeight(*fd.TargetWeight) {
		return invalidFormat("Weights must be positive numbers")
	}
	if fd.WeightUnit == nil {
		return requiredFields("Please choose a weight unit")
	}
	switch domain.WeightUnit(*fd.WeightUnit) {
	case domain.UnitKg, domain.UnitLb:
	default:
		return invalidFormat(fmt.Sprintf("Unknown weight unit %q", *fd.WeightUnit))
	}
	return nil
}

// positiveWeight rejects NaN and infinities, which JSON cannot encode.
func positiveWeight(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func preferencesRule(fd *domain.FormData, _ time.Time) *Notice {
	for name, pref := range fd.ExercisePreferences {
		if !domain.ValidPreferences[pref] {
			return invalidFormat(fmt.Sprintf("Unknown preference %q for %s", pref, name))
		}
	}
	if len(fd.RatedExercises()) == 0 {
		return selectionRequired("Please rate at least one exercise")
	}
	return nil
}

func assessmentsRule(fd *domain.FormData, _ time.Time) *Notice {
	for _, key := range domain.SelfAssessmentKeys {
		v := fd.SelfAssessments[key]
		if v == nil {
			return requiredFields("Please answer every statement")
		}
		if *v < domain.AssessmentMin || *v > domain.AssessmentMax {
			return invalidFormat(fmt.Sprintf("%s must be between %d and %d", key, domain.AssessmentMin, domain.AssessmentMax))
		}
	}
	return nil
}

func personalInfoRule(fd *domain.FormData, now time.Time) *Notice {
	info := fd.PersonalInfo
	if strings.TrimSpace(info.Name) == "" || strings.TrimSpace(info.DOB) == "" || strings.TrimSpace(info.Email) == "" {
		return requiredFields("Please fill in your name, date of birth and email")
	}
	age, err := domain.AgeFromDOB(info.DOB, now)
	if err != nil {
		return invalidFormat("Please enter your date of birth as YYYY-MM-DD")
	}
	if age < domain.MinAge || age > domain.MaxAge {
		return invalidFormat(fmt.Sprintf("Age must be between %d and %d", domain.MinAge, domain.MaxAge))
	}
	if !domain.ValidEmail(info.Email) {
		return invalidFormat("Please enter a valid email address")
	}
	return nil
}
