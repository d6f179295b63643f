package domain

import (
	"maps"
	"math"
	"slices"
	"strings"
)

// CustomOption is the list identifier that pairs a set-valued answer with
// its free-text companion field.
const CustomOption = "custom"

// PersonalInfo holds the contact details collected near the end of the survey.
type PersonalInfo struct {
	Name         string `json:"name"`
	DOB          string `json:"dob"`
	Email        string `json:"email"`
	EmailConsent bool   `json:"emailConsent"`
}

// FormData is the single aggregate of every answer collected by the survey.
// Scalars stay nil until answered; lists stay empty until populated.
type FormData struct {
	Gender           *string  `json:"gender"`
	Age              *string  `json:"age"`
	BodyType         *string  `json:"bodyType"`
	Goal             *string  `json:"goal"`
	FitnessGoal      *string  `json:"fitnessGoal"`
	DesiredBody      *string  `json:"desiredBody"`
	WeightChange     *string  `json:"weightChange"`
	Height           *float64 `json:"height"`
	CurrentWeight    *float64 `json:"currentWeight"`
	TargetWeight     *float64 `json:"targetWeight"`
	WeightUnit       *string  `json:"weightUnit"`
	WorkoutLocation  *string  `json:"workoutLocation"`
	WorkoutIntensity *string  `json:"workoutIntensity"`
	WorkoutFrequency *string  `json:"workoutFrequency"`
	WorkoutDuration  *string  `json:"workoutDuration"`
	SugaryFoods      *string  `json:"sugaryFoods"`
	WaterIntake      *string  `json:"waterIntake"`
	TypicalDay       *string  `json:"typicalDay"`
	EnergyLevels     *string  `json:"energyLevels"`
	SleepAmount      *string  `json:"sleepAmount"`
	StartCommitment  *string  `json:"startCommitment"`

	ProblemAreas           []string `json:"problemAreas"`
	Activities             []string `json:"activities"`
	ActivitiesCustom       string   `json:"activitiesCustom"`
	HealthConcerns         []string `json:"healthConcerns"`
	Allergies              []string `json:"allergies"`
	TraditionalFoods       []string `json:"traditionalFoods"`
	TraditionalFoodsCustom string   `json:"traditionalFoodsCustom"`

	ExercisePreferences map[string]Preference `json:"exercisePreferences"`
	SelfAssessments     map[string]*int       `json:"selfAssessments"`
	PersonalInfo        PersonalInfo          `json:"personalInfo"`
}

// NewFormData returns a FormData with every field at its default: nil
// scalars, empty lists, empty maps and unset self-assessment slots.
func NewFormData() *FormData {
	fd := &FormData{}
	fd.normalize()
	return fd
}

// Normalize replaces nil lists and maps with empty ones so that a decoded
// value and a freshly constructed value compare equal.
func (f *FormData) Normalize() {
	f.normalize()
}

func (f *FormData) normalize() {
	// JSON has no encoding for NaN or infinities.
	for _, p := range []**float64{&f.Height, &f.CurrentWeight, &f.TargetWeight} {
		if *p != nil && (math.IsNaN(**p) || math.IsInf(**p, 0)) {
			*p = nil
		}
	}
	if f.ProblemAreas == nil {
		f.ProblemAreas = []string{}
	}
	if f.Activities == nil {
		f.Activities = []string{}
	}
	if f.HealthConcerns == nil {
		f.HealthConcerns = []string{}
	}
	if f.Allergies == nil {
		f.Allergies = []string{}
	}
	if f.TraditionalFoods == nil {
		f.TraditionalFoods = []string{}
	}
	if f.ExercisePreferences == nil {
		f.ExercisePreferences = map[string]Preference{}
	}
	if f.SelfAssessments == nil {
		f.SelfAssessments = map[string]*int{}
	}
	for _, key := range SelfAssessmentKeys {
		if _, ok := f.SelfAssessments[key]; !ok {
			f.SelfAssessments[key] = nil
		}
	}
}

// Clone returns a deep copy. Snapshots handed to storage or remote calls are
// always clones so later mutations cannot race with them.
func (f *FormData) Clone() *FormData {
	if f == nil {
		return nil
	}
	c := *f
	c.Gender = cloneStr(f.Gender)
	c.Age = cloneStr(f.Age)
	c.BodyType = cloneStr(f.BodyType)
	c.Goal = cloneStr(f.Goal)
	c.FitnessGoal = cloneStr(f.FitnessGoal)
	c.DesiredBody = cloneStr(f.DesiredBody)
	c.WeightChange = cloneStr(f.WeightChange)
	c.Height = cloneFloat(f.Height)
	c.CurrentWeight = cloneFloat(f.CurrentWeight)
	c.TargetWeight = cloneFloat(f.TargetWeight)
	c.WeightUnit = cloneStr(f.WeightUnit)
	c.WorkoutLocation = cloneStr(f.WorkoutLocation)
	c.WorkoutIntensity = cloneStr(f.WorkoutIntensity)
	c.WorkoutFrequency = cloneStr(f.WorkoutFrequency)
	c.WorkoutDuration = cloneStr(f.WorkoutDuration)
	c.SugaryFoods = cloneStr(f.SugaryFoods)
	c.WaterIntake = cloneStr(f.WaterIntake)
	c.TypicalDay = cloneStr(f.TypicalDay)
	c.EnergyLevels = cloneStr(f.EnergyLevels)
	c.SleepAmount = cloneStr(f.SleepAmount)
	c.StartCommitment = cloneStr(f.StartCommitment)

	c.ProblemAreas = slices.Clone(f.ProblemAreas)
	c.Activities = slices.Clone(f.Activities)
	c.HealthConcerns = slices.Clone(f.HealthConcerns)
	c.Allergies = slices.Clone(f.Allergies)
	c.TraditionalFoods = slices.Clone(f.TraditionalFoods)

	c.ExercisePreferences = maps.Clone(f.ExercisePreferences)
	if f.SelfAssessments != nil {
		c.SelfAssessments = make(map[string]*int, len(f.SelfAssessments))
		for k, v := range f.SelfAssessments {
			c.SelfAssessments[k] = cloneInt(v)
		}
	}
	c.normalize()
	return &c
}

// HasIdentity reports whether both name and email are present, which is the
// minimum a remote profile record needs.
func (f *FormData) HasIdentity() bool {
	return strings.TrimSpace(f.PersonalInfo.Name) != "" && strings.TrimSpace(f.PersonalInfo.Email) != ""
}

// RatedExercises returns the exercise names with a preference other than unset,
// sorted for stable output.
func (f *FormData) RatedExercises() []string {
	var names []string
	for name, pref := range f.ExercisePreferences {
		if pref != PreferenceUnset && pref != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Str returns a pointer to s. Convenience for building FormData literals.
func Str(s string) *string { return &s }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
