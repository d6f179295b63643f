package testutil

import (
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/google/uuid"
)

// Fixed reference date for age checks in tests.
var ReferenceNow = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

// FormOption mutates a fixture FormData.
type FormOption func(*domain.FormData)

func WithPersonalInfo(name, dob, email string, consent bool) FormOption {
	return func(f *domain.FormData) {
		f.PersonalInfo = domain.PersonalInfo{Name: name, DOB: dob, Email: email, EmailConsent: consent}
	}
}

func WithoutIdentity() FormOption {
	return func(f *domain.FormData) {
		f.PersonalInfo.Name = ""
		f.PersonalInfo.Email = ""
	}
}

func WithAge(age *string) FormOption {
	return func(f *domain.FormData) { f.Age = age }
}

func WithHeight(cm float64) FormOption {
	return func(f *domain.FormData) { f.Height = domain.Float(cm) }
}

// NewTestFormData returns a FormData that passes every step's validation.
func NewTestFormData(opts ...FormOption) *domain.FormData {
	f := domain.NewFormData()
	f.Age = domain.Str("30-39")
	f.Gender = domain.Str("female")
	f.BodyType = domain.Str("average")
	f.Goal = domain.Str("get_shaped")
	f.FitnessGoal = domain.Str("general")
	f.DesiredBody = domain.Str("toned")
	f.ProblemAreas = []string{"belly", "arms"}
	f.WeightChange = domain.Str("stable")
	f.Height = domain.Float(168)
	f.CurrentWeight = domain.Float(72)
	f.TargetWeight = domain.Float(64)
	f.WeightUnit = domain.Str(string(domain.UnitKg))
	f.Activities = []string{"walking", domain.CustomOption}
	f.ActivitiesCustom = "climbing"
	f.WorkoutLocation = domain.Str("gym")
	f.WorkoutIntensity = domain.Str("moderate")
	f.WorkoutFrequency = domain.Str("3-4")
	f.WorkoutDuration = domain.Str("30-45")
	f.ExercisePreferences["yoga"] = domain.PreferenceLike
	f.ExercisePreferences["running"] = domain.PreferenceDislike
	f.SugaryFoods = domain.Str("sometimes")
	f.WaterIntake = domain.Str("1_2l")
	f.HealthConcerns = []string{"none"}
	f.Allergies = []string{"none"}
	f.TypicalDay = domain.Str("sitting")
	f.EnergyLevels = domain.Str("moderate")
	f.SleepAmount = domain.Str("7_8")
	for i, key := range domain.SelfAssessmentKeys {
		f.SelfAssessments[key] = domain.Int(i + 2)
	}
	f.StartCommitment = domain.Str("this_week")
	f.PersonalInfo = domain.PersonalInfo{
		Name:         "Maria",
		DOB:          "1990-05-01",
		Email:        "maria@example.com",
		EmailConsent: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SubmissionOption mutates a fixture Submission.
type SubmissionOption func(*domain.Submission)

func WithSubmissionStatus(s domain.SubmissionStatus) SubmissionOption {
	return func(sub *domain.Submission) { sub.Status = s }
}

func WithSubmissionTime(t time.Time) SubmissionOption {
	return func(sub *domain.Submission) { sub.CreatedAt = t }
}

func NewTestSubmission(kind domain.SubmissionKind, opts ...SubmissionOption) *domain.Submission {
	sub := &domain.Submission{
		ID:        uuid.New().String(),
		Kind:      kind,
		Target:    "test",
		Status:    domain.SubmissionOK,
		Email:     "maria@example.com",
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(sub)
	}
	return sub
}
