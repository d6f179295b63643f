package cli

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/cli/formatter"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/charmbracelet/huh"
)

// stepForm is the huh form for one survey step. apply copies the submitted
// values into the answers once the form completes.
type stepForm struct {
	form  *huh.Form
	apply func(fd *domain.FormData)
}

// singleFields maps single-choice step names to their answer field.
var singleFields = map[string]func(*domain.FormData) **string{
	"age":               func(f *domain.FormData) **string { return &f.Age },
	"gender":            func(f *domain.FormData) **string { return &f.Gender },
	"body_type":         func(f *domain.FormData) **string { return &f.BodyType },
	"goal":              func(f *domain.FormData) **string { return &f.Goal },
	"fitness_goal":      func(f *domain.FormData) **string { return &f.FitnessGoal },
	"desired_body":      func(f *domain.FormData) **string { return &f.DesiredBody },
	"weight_change":     func(f *domain.FormData) **string { return &f.WeightChange },
	"workout_location":  func(f *domain.FormData) **string { return &f.WorkoutLocation },
	"workout_intensity": func(f *domain.FormData) **string { return &f.WorkoutIntensity },
	"workout_frequency": func(f *domain.FormData) **string { return &f.WorkoutFrequency },
	"workout_duration":  func(f *domain.FormData) **string { return &f.WorkoutDuration },
	"sugary_foods":      func(f *domain.FormData) **string { return &f.SugaryFoods },
	"water_intake":      func(f *domain.FormData) **string { return &f.WaterIntake },
	"typical_day":       func(f *domain.FormData) **string { return &f.TypicalDay },
	"energy_levels":     func(f *domain.FormData) **string { return &f.EnergyLevels },
	"sleep_amount":      func(f *domain.FormData) **string { return &f.SleepAmount },
	"start_commitment":  func(f *domain.FormData) **string { return &f.StartCommitment },
}

// multiFields maps multi-choice step names to their list field.
var multiFields = map[string]func(*domain.FormData) *[]string{
	"problem_areas":     func(f *domain.FormData) *[]string { return &f.ProblemAreas },
	"activities":        func(f *domain.FormData) *[]string { return &f.Activities },
	"health_concerns":   func(f *domain.FormData) *[]string { return &f.HealthConcerns },
	"allergies":         func(f *domain.FormData) *[]string { return &f.Allergies },
	"traditional_foods": func(f *domain.FormData) *[]string { return &f.TraditionalFoods },
}

// customFields maps multi-choice steps offering "something else" to the
// free-text companion field.
var customFields = map[string]func(*domain.FormData) *string{
	"activities":        func(f *domain.FormData) *string { return &f.ActivitiesCustom },
	"traditional_foods": func(f *domain.FormData) *string { return &f.TraditionalFoodsCustom },
}

// stepFormBuilder builds forms prefilled from the current answers.
type stepFormBuilder struct {
	catalog  *survey.Catalog
	snapshot func() *domain.FormData
}

// newStepDispatcher registers the form builder for every category.
func newStepDispatcher(catalog *survey.Catalog, snapshot func() *domain.FormData, log *slog.Logger) *survey.Dispatcher[stepForm] {
	b := &stepFormBuilder{catalog: catalog, snapshot: snapshot}
	d := survey.NewDispatcher[stepForm](catalog, log)
	for _, cat := range catalog.Categories() {
		d.Register(cat, b.build)
	}
	return d
}

func (b *stepFormBuilder) build(step survey.Step, _ int) stepForm {
	fd := b.snapshot()
	switch step.Kind {
	case survey.KindSingle:
		return singleForm(step, fd)
	case survey.KindMulti:
		return multiForm(step, fd)
	case survey.KindHeight:
		return heightForm(step, fd)
	case survey.KindWeights:
		return weightsForm(step, fd)
	case survey.KindPreferences:
		return preferencesForm(step, fd)
	case survey.KindAssessments:
		return assessmentsForm(step, fd)
	case survey.KindPersonal:
		return personalForm(step, fd)
	default:
		return infoForm(step, formatter.InfoText(step, fd, b.catalog))
	}
}

func huhOptions(opts []survey.Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

func singleForm(step survey.Step, fd *domain.FormData) stepForm {
	field := singleFields[step.Name]
	var value string
	if field != nil && *field(fd) != nil {
		value = **field(fd)
	}

	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(step.Description).
			Options(huhOptions(step.Options)...).
			Value(&value),
	))
	return stepForm{form: form, apply: func(fd *domain.FormData) {
		if field != nil && value != "" {
			*field(fd) = domain.Str(value)
		}
	}}
}

func multiForm(step survey.Step, fd *domain.FormData) stepForm {
	field := multiFields[step.Name]
	custom := customFields[step.Name]

	var values []string
	if field != nil {
		values = append(values, *field(fd)...)
	}
	var text string
	if custom != nil {
		text = *custom(fd)
	}

	fields := []huh.Field{
		huh.NewMultiSelect[string]().
			Title(step.Description).
			Description("space to toggle, enter to continue").
			Options(huhOptions(step.Options)...).
			Value(&values),
	}
	if custom != nil {
		fields = append(fields, huh.NewInput().
			Title("Something else?").
			Description("Only needed if you picked \"Something else\"").
			Value(&text))
	}

	return stepForm{form: themedForm(huh.NewGroup(fields...)), apply: func(fd *domain.FormData) {
		if field != nil {
			*field(fd) = append([]string{}, values...)
		}
		if custom != nil {
			*custom(fd) = strings.TrimSpace(text)
		}
	}}
}

func heightForm(step survey.Step, fd *domain.FormData) stepForm {
	height := formatNumber(fd.Height)
	form := themedForm(huh.NewGroup(
		huh.NewInput().
			Title(step.Description).
			Placeholder("175").
			Value(&height).
			Validate(validateNumber),
	))
	return stepForm{form: form, apply: func(fd *domain.FormData) {
		fd.Height = parseNumber(height)
	}}
}

func weightsForm(step survey.Step, fd *domain.FormData) stepForm {
	unit := string(fd.Unit())
	current := formatNumber(fd.CurrentWeight)
	target := formatNumber(fd.TargetWeight)

	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Unit").
			Options(huhOptions(step.Options)...).
			Value(&unit),
		huh.NewInput().
			Title("Current weight").
			Placeholder("80").
			Value(&current).
			Validate(validateNumber),
		huh.NewInput().
			Title("Target weight").
			Placeholder("72").
			Value(&target).
			Validate(validateNumber),
	).Title(step.Description))

	return stepForm{form: form, apply: func(fd *domain.FormData) {
		fd.WeightUnit = domain.Str(unit)
		fd.CurrentWeight = parseNumber(current)
		fd.TargetWeight = parseNumber(target)
	}}
}

func preferencesForm(step survey.Step, fd *domain.FormData) stepForm {
	values := make([]string, len(domain.Exercises))
	fields := make([]huh.Field, len(domain.Exercises))
	for i, name := range domain.Exercises {
		values[i] = string(domain.PreferenceUnset)
		if p, ok := fd.ExercisePreferences[name]; ok && p != "" {
			values[i] = string(p)
		}
		fields[i] = huh.NewSelect[string]().
			Title(exerciseLabel(name)).
			Options(huhOptions(step.Options)...).
			Inline(true).
			Value(&values[i])
	}

	return stepForm{form: themedForm(huh.NewGroup(fields...).Title(step.Description)), apply: func(fd *domain.FormData) {
		for i, name := range domain.Exercises {
			fd.ExercisePreferences[name] = domain.Preference(values[i])
		}
	}}
}

var assessmentStatements = map[string]string{
	domain.AssessMotivation: "I stay motivated once I start something",
	domain.AssessDiscipline: "I stick to routines without reminders",
	domain.AssessStress:     "Stress often gets in the way of my plans",
	domain.AssessConfidence: "I feel confident about reaching my goal",
}

func assessmentsForm(step survey.Step, fd *domain.FormData) stepForm {
	keys := domain.SelfAssessmentKeys
	values := make([]string, len(keys))
	fields := make([]huh.Field, len(keys))
	for i, key := range keys {
		if v := fd.SelfAssessments[key]; v != nil {
			values[i] = strconv.Itoa(*v)
		}
		fields[i] = huh.NewSelect[string]().
			Title(assessmentStatements[key]).
			Options(huhOptions(step.Options)...).
			Value(&values[i])
	}

	return stepForm{form: themedForm(huh.NewGroup(fields...).Title(step.Description)), apply: func(fd *domain.FormData) {
		for i, key := range keys {
			if n, err := strconv.Atoi(values[i]); err == nil {
				fd.SelfAssessments[key] = domain.Int(n)
			}
		}
	}}
}

func personalForm(step survey.Step, fd *domain.FormData) stepForm {
	info := fd.PersonalInfo
	consent := info.EmailConsent

	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&info.Name),
		huh.NewInput().
			Title("Date of birth").
			Placeholder("1990-04-21").
			Value(&info.DOB).
			Validate(validateOptionalDate),
		huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&info.Email),
		huh.NewConfirm().
			Title("Send me tips and offers by email").
			Affirmative("Yes").
			Negative("No").
			Value(&consent),
	).Title(step.Description))

	return stepForm{form: form, apply: func(fd *domain.FormData) {
		fd.PersonalInfo = domain.PersonalInfo{
			Name:         strings.TrimSpace(info.Name),
			DOB:          strings.TrimSpace(info.DOB),
			Email:        strings.TrimSpace(info.Email),
			EmailConsent: consent,
		}
	}}
}

func infoForm(step survey.Step, body string) stepForm {
	form := themedForm(huh.NewGroup(
		huh.NewNote().
			Title(step.Description).
			Description(body).
			Next(true).
			NextLabel("Continue"),
	))
	return stepForm{form: form, apply: func(*domain.FormData) {}}
}

func exerciseLabel(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseNumber returns nil for blank, malformed or non-finite input so the
// step validator reports it as missing.
func parseNumber(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return domain.Float(v)
}

// validateNumber accepts empty or a positive finite number.
func validateNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if v := parseNumber(s); v == nil || *v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
