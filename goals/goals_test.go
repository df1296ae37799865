package goals

import "testing"

func TestComputeMale(t *testing.T) {
	got, err := Compute(Input{
		Height:        175,
		CurrentWeight: 80,
		Goal:          "Weight Loss",
		Age:           30,
		Gender:        "male",
		ActivityLevel: "lightly_active",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// bmr = 10*80 + 6.25*175 - 5*30 + 5 = 1748.75
	if got.BMR != 1749 {
		t.Fatalf("bmr = %d, want 1749", got.BMR)
	}
	// tdee = 1748.75 * 1.375 = 2404.53125
	if got.TDEE != 2405 {
		t.Fatalf("tdee = %d, want 2405", got.TDEE)
	}
	// calories = round(2404.53125 * 0.8) = 1924
	if got.TargetCalories != 1924 {
		t.Fatalf("targetCalories = %d, want 1924", got.TargetCalories)
	}
	if got.TargetProtein != 176 {
		t.Fatalf("targetProtein = %d, want 176", got.TargetProtein)
	}
	// fat = round(1924 * 0.25 / 9) = 53
	if got.TargetFat != 53 {
		t.Fatalf("targetFat = %d, want 53", got.TargetFat)
	}
	// carbs = round((1924 - 176*4 - 53*9) / 4) = round(185.75) = 186
	if got.TargetCarbs != 186 {
		t.Fatalf("targetCarbs = %d, want 186", got.TargetCarbs)
	}
}

func TestComputeFemale(t *testing.T) {
	got, err := Compute(Input{
		Height:        165,
		CurrentWeight: 60,
		Goal:          "Maintenance",
		Age:           25,
		Gender:        "female",
		ActivityLevel: "sedentary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// bmr = 10*60 + 6.25*165 - 5*25 - 161 = 1345.25
	if got.BMR != 1345 {
		t.Fatalf("bmr = %d, want 1345", got.BMR)
	}
	// tdee = 1345.25 * 1.2 = 1614.3; maintenance keeps it as the target
	if got.TDEE != 1614 || got.TargetCalories != 1614 {
		t.Fatalf("tdee/calories = %d/%d, want 1614/1614", got.TDEE, got.TargetCalories)
	}
	if got.TargetProtein != 132 {
		t.Fatalf("targetProtein = %d, want 132", got.TargetProtein)
	}
	if got.TargetFat != 45 {
		t.Fatalf("targetFat = %d, want 45", got.TargetFat)
	}
	// carbs = round((1614 - 528 - 405) / 4) = round(170.25) = 170
	if got.TargetCarbs != 170 {
		t.Fatalf("targetCarbs = %d, want 170", got.TargetCarbs)
	}
}

func TestComputeDeterministic(t *testing.T) {
	in := Input{Height: 180, CurrentWeight: 75, Goal: "Muscle Gain", Age: 40, Gender: "male", ActivityLevel: "very_active"}
	a, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("same input produced different outputs: %+v vs %+v", a, b)
	}
}

// Extreme inputs can push the carb remainder below zero. That is the
// documented behavior: no clamping here, the caller decides what a
// negative budget means.
func TestComputeNegativeCarbsNotClamped(t *testing.T) {
	got, err := Compute(Input{
		Height:        100,
		CurrentWeight: 300,
		Goal:          "Weight Loss",
		Age:           90,
		Gender:        "male",
		ActivityLevel: "sedentary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bmr = 3000 + 625 - 450 + 5 = 3180; tdee = 3816; calories = 3053
	// carbs = round((3053 - 660*4 - 85*9) / 4) = -88
	if got.TargetCarbs != -88 {
		t.Fatalf("targetCarbs = %d, want -88", got.TargetCarbs)
	}
}

func TestComputeRejectsUnknownActivityLevel(t *testing.T) {
	_, err := Compute(Input{Height: 175, CurrentWeight: 80, Goal: "Maintenance", Age: 30, Gender: "male", ActivityLevel: "couch_potato"})
	if err == nil {
		t.Fatal("expected error for unknown activity level")
	}
}

func TestComputeRejectsUnknownGoal(t *testing.T) {
	_, err := Compute(Input{Height: 175, CurrentWeight: 80, Goal: "Bulk", Age: 30, Gender: "male", ActivityLevel: "sedentary"})
	if err == nil {
		t.Fatal("expected error for unknown goal")
	}
}
