package goals

import (
	"fmt"
	"math"
)

// ActivityMultipliers maps activity levels to their TDEE multiplier.
// This map is the source of truth for valid activity levels; handlers
// validate against it too.
var ActivityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// GoalMultipliers scales TDEE into a calorie target: 20% deficit for
// weight loss, 10% surplus for muscle gain.
var GoalMultipliers = map[string]float64{
	"Weight Loss": 0.8,
	"Muscle Gain": 1.1,
	"Maintenance": 1.0,
}

// Input carries the biometrics the calculation runs on. Height in cm,
// weight in kg, age in years.
type Input struct {
	Height        float64
	CurrentWeight float64
	Goal          string
	Age           float64
	Gender        string
	ActivityLevel string
}

// Targets is the computed calorie and macro plan. Values are rounded to
// whole units (kcal, grams); carbs may come out negative for extreme
// inputs and are deliberately not clamped.
type Targets struct {
	TargetCalories int `json:"targetCalories"`
	TargetProtein  int `json:"targetProtein"`
	TargetCarbs    int `json:"targetCarbs"`
	TargetFat      int `json:"targetFat"`
	BMR            int `json:"bmr"`
	TDEE           int `json:"tdee"`
}

// Compute derives calorie and macro targets from biometrics using the
// Mifflin-St Jeor equation. Pure function: no I/O, same input always
// gives the same output.
func Compute(in Input) (Targets, error) {
	activity, ok := ActivityMultipliers[in.ActivityLevel]
	if !ok {
		return Targets{}, fmt.Errorf("unknown activity level %q", in.ActivityLevel)
	}
	goal, ok := GoalMultipliers[in.Goal]
	if !ok {
		return Targets{}, fmt.Errorf("unknown goal %q", in.Goal)
	}

	bmr := 10*in.CurrentWeight + 6.25*in.Height - 5*in.Age
	if in.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	tdee := bmr * activity

	targetCalories := math.Round(tdee * goal)
	targetProtein := math.Round(in.CurrentWeight * 2.2) // 2.2g per kg
	targetFat := math.Round(targetCalories * 0.25 / 9)  // 25% of calories, 9 kcal/g
	targetCarbs := math.Round((targetCalories - targetProtein*4 - targetFat*9) / 4)

	return Targets{
		TargetCalories: int(targetCalories),
		TargetProtein:  int(targetProtein),
		TargetCarbs:    int(targetCarbs),
		TargetFat:      int(targetFat),
		BMR:            int(math.Round(bmr)),
		TDEE:           int(math.Round(tdee)),
	}, nil
}
