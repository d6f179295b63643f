package domain

// Preference is the rating a user gives a single exercise.
type Preference string

const (
	PreferenceLike    Preference = "like"
	PreferenceNeutral Preference = "neutral"
	PreferenceDislike Preference = "dislike"
	PreferenceUnset   Preference = "unset"
)

// ValidPreferences is the canonical set of accepted preference strings.
var ValidPreferences = map[Preference]bool{
	PreferenceLike: true, PreferenceNeutral: true,
	PreferenceDislike: true, PreferenceUnset: true,
}

// Self-assessment keys. The set is fixed; values live on a 1..5 scale.
const (
	AssessMotivation = "motivation"
	AssessDiscipline = "discipline"
	AssessStress     = "stress"
	AssessConfidence = "confidence"
)

// SelfAssessmentKeys lists the assessment keys in display order.
var SelfAssessmentKeys = []string{AssessMotivation, AssessDiscipline, AssessStress, AssessConfidence}

const (
	AssessmentMin = 1
	AssessmentMax = 5
)

// Exercises offered on the preference step, in display order.
var Exercises = []string{"cardio", "stretching", "pull_ups", "push_ups", "squats", "yoga", "weightlifting", "running"}

type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

// PlanType identifies which personalized plan a user buys.
type PlanType string

const (
	PlanWorkout  PlanType = "workout"
	PlanMeal     PlanType = "meal"
	PlanCombined PlanType = "combined"
)

// PlanTypes lists every purchasable plan in display order.
var PlanTypes = []PlanType{PlanWorkout, PlanMeal, PlanCombined}

// ValidPlanType reports whether s names a known plan.
func ValidPlanType(s string) bool {
	for _, p := range PlanTypes {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Label returns the display name for a plan type.
func (p PlanType) Label() string {
	switch p {
	case PlanWorkout:
		return "Workout Plan"
	case PlanMeal:
		return "Meal Plan"
	case PlanCombined:
		return "Workout + Meal Plan"
	default:
		return string(p)
	}
}
