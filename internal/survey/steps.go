package survey

import (
	"github.com/alexanderramin/gymform/internal/domain"
)

// Step ids referenced outside the catalog itself.
const (
	StepAge          = 1
	StepPersonalInfo = 31
)

func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func single(id int, cat Category, name, desc string, options []Option, get func(*domain.FormData) *string) Step {
	return Step{
		ID: id, Category: cat, Name: name, Description: desc,
		RequiresValidation: true, Kind: KindSingle, Options: options, AutoAdvance: true,
		rule: requireScalar(get, "Please select an option to continue"),
	}
}

func multi(id int, cat Category, name, desc string, options []Option, get func(*domain.FormData) []string, custom func(*domain.FormData) string) Step {
	return Step{
		ID: id, Category: cat, Name: name, Description: desc,
		RequiresValidation: true, Kind: KindMulti, Options: options,
		rule: requireList(get, custom, "Please select at least one option"),
	}
}

func info(id int, cat Category, name, desc string) Step {
	return Step{ID: id, Category: cat, Name: name, Description: desc, Kind: KindInfo}
}

// DefaultSteps returns the canonical 33-step survey.
func DefaultSteps() []Step {
	return []Step{
		// basic info
		single(1, CategoryBasicInfo, "age", "What is your age?",
			opts("18-29", "18-29", "30-39", "30-39", "40-49", "40-49", "50+", "50+"),
			func(f *domain.FormData) *string { return f.Age }),
		single(2, CategoryBasicInfo, "gender", "What is your gender?",
			opts("Male", "male", "Female", "female"),
			func(f *domain.FormData) *string { return f.Gender }),
		single(3, CategoryBasicInfo, "body_type", "Which body type describes you best?",
			opts("Slim", "slim", "Average", "average", "Heavy", "heavy"),
			func(f *domain.FormData) *string { return f.BodyType }),
		single(4, CategoryBasicInfo, "goal", "What is your main goal?",
			opts("Lose weight", "lose_weight", "Gain muscle", "gain_muscle", "Get shaped", "get_shaped"),
			func(f *domain.FormData) *string { return f.Goal }),

		// body assessment
		single(5, CategoryBodyAssessment, "fitness_goal", "What should your training focus on?",
			opts("Strength", "strength", "Endurance", "endurance", "Flexibility", "flexibility", "General fitness", "general"),
			func(f *domain.FormData) *string { return f.FitnessGoal }),
		single(6, CategoryBodyAssessment, "desired_body", "Which body do you want?",
			opts("Slim", "slim", "Toned", "toned", "Athletic", "athletic", "Muscular", "muscular"),
			func(f *domain.FormData) *string { return f.DesiredBody }),
		multi(7, CategoryBodyAssessment, "problem_areas", "Which areas do you want to work on?",
			opts("Belly", "belly", "Arms", "arms", "Chest", "chest", "Back", "back", "Legs", "legs", "Glutes", "glutes"),
			func(f *domain.FormData) []string { return f.ProblemAreas }, nil),
		single(8, CategoryBodyAssessment, "weight_change", "How does your weight usually change?",
			opts("I gain weight easily", "gain_easily", "I lose weight easily", "lose_easily", "It stays stable", "stable"),
			func(f *domain.FormData) *string { return f.WeightChange }),
		info(9, CategoryBodyAssessment, "body_summary", "Your body profile so far"),

		// measurements
		{
			ID: 10, Category: CategoryMeasurements, Name: "height", Description: "How tall are you (cm)?",
			RequiresValidation: true, Kind: KindHeight, rule: heightRule,
		},
		{
			ID: 11, Category: CategoryMeasurements, Name: "weights", Description: "What are your current and target weights?",
			RequiresValidation: true, Kind: KindWeights, Options: opts("kg", "kg", "lb", "lb"), rule: weightsRule,
		},
		info(12, CategoryMeasurements, "weight_forecast", "Your projected progress"),

		// activity
		multi(13, CategoryActivity, "activities", "Which activities do you enjoy?",
			opts("Walking", "walking", "Cycling", "cycling", "Swimming", "swimming", "Team sports", "team_sports", "Dancing", "dancing", "Something else", domain.CustomOption),
			func(f *domain.FormData) []string { return f.Activities },
			func(f *domain.FormData) string { return f.ActivitiesCustom }),
		single(14, CategoryActivity, "workout_location", "Where will you work out?",
			opts("At home", "home", "At the gym", "gym", "Outdoors", "outdoor"),
			func(f *domain.FormData) *string { return f.WorkoutLocation }),
		single(15, CategoryActivity, "workout_intensity", "How intense should workouts be?",
			opts("Light", "light", "Moderate", "moderate", "Intense", "intense"),
			func(f *domain.FormData) *string { return f.WorkoutIntensity }),
		single(16, CategoryActivity, "workout_frequency", "How often can you train per week?",
			opts("1-2 times", "1-2", "3-4 times", "3-4", "5+ times", "5+"),
			func(f *domain.FormData) *string { return f.WorkoutFrequency }),
		single(17, CategoryActivity, "workout_duration", "How long can each workout be?",
			opts("15-30 min", "15-30", "30-45 min", "30-45", "45-60 min", "45-60", "60+ min", "60+"),
			func(f *domain.FormData) *string { return f.WorkoutDuration }),
		{
			ID: 18, Category: CategoryActivity, Name: "exercise_preferences", Description: "Rate these exercises",
			RequiresValidation: true, Kind: KindPreferences,
			Options: opts("Like", string(domain.PreferenceLike), "Neutral", string(domain.PreferenceNeutral), "Dislike", string(domain.PreferenceDislike), "Skip", string(domain.PreferenceUnset)),
			rule:    preferencesRule,
		},
		info(19, CategoryActivity, "activity_summary", "Your activity profile"),

		// nutrition
		single(20, CategoryNutrition, "sugary_foods", "How often do you eat sugary foods?",
			opts("Often", "often", "Sometimes", "sometimes", "Rarely", "rarely"),
			func(f *domain.FormData) *string { return f.SugaryFoods }),
		single(21, CategoryNutrition, "water_intake", "How much water do you drink daily?",
			opts("Less than 1 l", "lt_1l", "1-2 l", "1_2l", "2-3 l", "2_3l", "More than 3 l", "gt_3l"),
			func(f *domain.FormData) *string { return f.WaterIntake }),
		multi(22, CategoryNutrition, "health_concerns", "Do you have any health concerns?",
			opts("None", "none", "Back pain", "back_pain", "Joint pain", "joint_pain", "Heart condition", "heart", "Diabetes", "diabetes"),
			func(f *domain.FormData) []string { return f.HealthConcerns }, nil),
		multi(23, CategoryNutrition, "allergies", "Any food allergies?",
			opts("None", "none", "Gluten", "gluten", "Lactose", "lactose", "Nuts", "nuts", "Seafood", "seafood", "Eggs", "eggs"),
			func(f *domain.FormData) []string { return f.Allergies }, nil),
		{
			ID: 24, Category: CategoryNutrition, Name: "traditional_foods", Description: "Any traditional foods you want to keep?",
			Kind:    KindMulti,
			Options: opts("Rice", "rice", "Bread", "bread", "Pasta", "pasta", "Beans", "beans", "Something else", domain.CustomOption),
		},
		info(25, CategoryNutrition, "nutrition_summary", "Your nutrition profile"),

		// lifestyle
		single(26, CategoryLifestyle, "typical_day", "What does a typical day look like?",
			opts("Mostly sitting", "sitting", "On my feet", "on_feet", "A mix of both", "mixed"),
			func(f *domain.FormData) *string { return f.TypicalDay }),
		single(27, CategoryLifestyle, "energy_levels", "How are your energy levels?",
			opts("Low", "low", "Moderate", "moderate", "High", "high"),
			func(f *domain.FormData) *string { return f.EnergyLevels }),
		single(28, CategoryLifestyle, "sleep_amount", "How much do you sleep?",
			opts("Less than 5 h", "lt_5", "5-6 h", "5_6", "7-8 h", "7_8", "More than 8 h", "gt_8"),
			func(f *domain.FormData) *string { return f.SleepAmount }),
		{
			ID: 29, Category: CategoryLifestyle, Name: "self_assessments", Description: "How much do you agree with these statements?",
			RequiresValidation: true, Kind: KindAssessments,
			Options: opts("1 - Strongly disagree", "1", "2", "2", "3", "3", "4", "4", "5 - Strongly agree", "5"),
			rule:    assessmentsRule,
		},

		// final
		single(30, CategoryFinal, "start_commitment", "When do you want to start?",
			opts("Today", "today", "This week", "this_week", "Next week", "next_week"),
			func(f *domain.FormData) *string { return f.StartCommitment }),
		{
			ID: StepPersonalInfo, Category: CategoryFinal, Name: "personal_info", Description: "Where should we send your plan?",
			RequiresValidation: true, Kind: KindPersonal, rule: personalInfoRule,
		},
		info(32, CategoryFinal, "plan_preview", "Your plan is ready to be built"),
		info(33, CategoryFinal, "confirmation", "Confirm and build my plan"),
	}
}

// DefaultCatalog returns the canonical catalog. It panics only if the
// built-in step table is malformed, which the package tests rule out.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSteps())
	if err != nil {
		panic(err)
	}
	return c
}
