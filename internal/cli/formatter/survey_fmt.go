package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/charmbracelet/glamour"
)

// FormatSteps renders the step catalog as a table.
func FormatSteps(steps []survey.Step) string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		validated := Dim("-")
		if s.RequiresValidation {
			validated = StyleGreen.Render("yes")
		}
		auto := ""
		if s.AutoAdvance {
			auto = StyleBlue.Render("auto")
		}
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			StylePurple.Render(string(s.Category)),
			s.Name,
			string(s.Kind),
			validated,
			auto,
		})
	}
	return RenderTable([]string{"#", "CATEGORY", "NAME", "KIND", "VALIDATED", ""}, rows)
}

// StepCheck pairs a step with its validation result.
type StepCheck struct {
	Step   survey.Step
	Notice *survey.Notice
}

// FormatValidation renders per-step results and a one-line verdict.
func FormatValidation(checks []StepCheck) string {
	var b strings.Builder
	failed := 0
	for _, c := range checks {
		mark := StyleGreen.Render("✔")
		detail := ""
		if c.Notice != nil {
			failed++
			mark = StyleRed.Render("✖")
			detail = "  " + Dim(c.Notice.Message)
		}
		fmt.Fprintf(&b, "  %s %2d %s%s\n", mark, c.Step.ID, c.Step.Name, detail)
	}
	b.WriteString("\n")
	if failed == 0 {
		b.WriteString(StyleGreen.Render(fmt.Sprintf("All %d steps pass.", len(checks))))
	} else {
		b.WriteString(StyleRed.Render(fmt.Sprintf("%d of %d steps need attention.", failed, len(checks))))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatFormState renders the saved answers overview for "state show".
func FormatFormState(fd *domain.FormData, catalog *survey.Catalog, answered, validated int, email string) string {
	var b strings.Builder
	b.WriteString(Header("Saved survey"))
	b.WriteString("\n\n")
	b.WriteString(RenderProgress(answered, validated, 24))
	b.WriteString(Dim("  validated steps answered"))
	b.WriteString("\n\n")

	if email == "" {
		email = Dim("(none)")
	}
	pairs := [][2]string{
		{"Name", orNone(fd.PersonalInfo.Name)},
		{"Email", email},
		{"Goal", label(catalog, "goal", fd.Goal)},
		{"Fitness goal", label(catalog, "fitness_goal", fd.FitnessGoal)},
		{"Location", label(catalog, "workout_location", fd.WorkoutLocation)},
		{"Frequency", label(catalog, "workout_frequency", fd.WorkoutFrequency)},
	}
	if bmi, ok := fd.BMI(); ok {
		pairs = append(pairs, [2]string{"BMI", fmt.Sprintf("%.1f (%s)", bmi, domain.BMICategory(bmi))})
	}
	b.WriteString(RenderKeyValues(pairs))
	return b.String()
}

// InfoText returns the body of an informational step, derived from the
// answers given so far.
func InfoText(step survey.Step, fd *domain.FormData, catalog *survey.Catalog) string {
	switch step.Name {
	case "body_summary":
		return fmt.Sprintf("Goal: %s. Focus: %s. Target body: %s.",
			label(catalog, "goal", fd.Goal), label(catalog, "fitness_goal", fd.FitnessGoal), label(catalog, "desired_body", fd.DesiredBody))
	case "weight_forecast":
		bmi, ok := fd.BMI()
		if !ok {
			return "Add your height and weight to see a forecast."
		}
		text := fmt.Sprintf("Your BMI is %.1f (%s).", bmi, domain.BMICategory(bmi))
		if weeks, ok := fd.ForecastWeeks(); ok && weeks > 0 {
			text += fmt.Sprintf(" At a safe pace you can reach %s %s in about %d weeks.",
				trimFloat(*fd.TargetWeight), fd.Unit(), weeks)
		}
		return text
	case "activity_summary":
		return fmt.Sprintf("%s sessions, %s per week, %s each. You like: %s.",
			label(catalog, "workout_intensity", fd.WorkoutIntensity),
			label(catalog, "workout_frequency", fd.WorkoutFrequency),
			label(catalog, "workout_duration", fd.WorkoutDuration),
			orNone(strings.Join(liked(fd), ", ")))
	case "nutrition_summary":
		return fmt.Sprintf("Water: %s. Sweets: %s. Allergies: %s.",
			label(catalog, "water_intake", fd.WaterIntake),
			label(catalog, "sugary_foods", fd.SugaryFoods),
			orNone(strings.Join(fd.Allergies, ", ")))
	case "plan_preview":
		return "We will combine your answers into a workout and meal plan that fits your schedule."
	default:
		return step.Description
	}
}

// SummaryMarkdown builds the results page body.
func SummaryMarkdown(fd *domain.FormData, catalog *survey.Catalog) string {
	var b strings.Builder
	name := strings.TrimSpace(fd.PersonalInfo.Name)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "# Your analysis is ready, %s\n\n", name)

	b.WriteString("## Profile\n\n")
	fmt.Fprintf(&b, "- **Goal:** %s\n", label(catalog, "goal", fd.Goal))
	fmt.Fprintf(&b, "- **Target body:** %s\n", label(catalog, "desired_body", fd.DesiredBody))
	if len(fd.ProblemAreas) > 0 {
		fmt.Fprintf(&b, "- **Focus areas:** %s\n", strings.Join(fd.ProblemAreas, ", "))
	}
	if bmi, ok := fd.BMI(); ok {
		fmt.Fprintf(&b, "- **BMI:** %.1f (%s)\n", bmi, domain.BMICategory(bmi))
	}
	if weeks, ok := fd.ForecastWeeks(); ok && weeks > 0 {
		fmt.Fprintf(&b, "- **Forecast:** about %d weeks to your target weight\n", weeks)
	}

	b.WriteString("\n## Training\n\n")
	fmt.Fprintf(&b, "- **Where:** %s\n", label(catalog, "workout_location", fd.WorkoutLocation))
	fmt.Fprintf(&b, "- **How often:** %s, %s each\n",
		label(catalog, "workout_frequency", fd.WorkoutFrequency), label(catalog, "workout_duration", fd.WorkoutDuration))
	if l := liked(fd); len(l) > 0 {
		fmt.Fprintf(&b, "- **Favourites:** %s\n", strings.Join(l, ", "))
	}

	b.WriteString("\n## Choose your plan\n\n")
	for _, p := range domain.PlanTypes {
		fmt.Fprintf(&b, "- %s\n", p.Label())
	}
	return b.String()
}

// RenderMarkdown renders md for a terminal of the given width. style is a
// glamour standard style name such as "dark" or "notty".
func RenderMarkdown(md string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func label(catalog *survey.Catalog, stepName string, value *string) string {
	if value == nil || *value == "" {
		return "not answered"
	}
	for _, s := range catalog.Steps() {
		if s.Name == stepName {
			return s.OptionLabel(*value)
		}
	}
	return *value
}

func liked(fd *domain.FormData) []string {
	var out []string
	for _, name := range fd.RatedExercises() {
		if fd.ExercisePreferences[name] == domain.PreferenceLike {
			out = append(out, strings.ReplaceAll(name, "_", " "))
		}
	}
	return out
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
