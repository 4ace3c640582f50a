// Package nutrition computes energy needs and builds meal plans.
package nutrition

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MinDailyCalories is the floor for goal-adjusted targets.
const MinDailyCalories = 1200

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalAdjustments = map[string]int{
	"weight_loss":    -500,
	"maintenance":    0,
	"weight_gain":    300,
	"muscle_gain":    300,
	"general_health": 0,
}

// ActivityLevels lists the accepted activity levels.
func ActivityLevels() []any {
	return []any{"sedentary", "light", "moderate", "active", "very_active"}
}

// EnergyInput describes the person an estimate is made for. Weight is in kg and height
// in cm.
type EnergyInput struct {
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

func (in EnergyInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Age, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&in.Weight, validation.Required, validation.Min(0.1)),
		validation.Field(&in.Height, validation.Required, validation.Min(30.0), validation.Max(272.0)),
		validation.Field(&in.Gender, validation.Required),
		validation.Field(&in.ActivityLevel, validation.Required, validation.In(ActivityLevels()...)),
	)
}

// EnergyEstimate is the result of Estimate. All values are kcal per day.
type EnergyEstimate struct {
	BMR                int     `json:"bmr"`
	TDEE               int     `json:"tdee"`
	ActivityMultiplier float64 `json:"activity_multiplier"`
	DailyTarget        int     `json:"daily_target"`
	Goal               string  `json:"goal"`
}

// BMR uses the Mifflin-St Jeor equation. Genders other than male and female get the
// midpoint of the two offsets.
func BMR(age int, weightKg, heightCm float64, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(gender) {
	case "male", "m":
		return base + 5
	case "female", "f":
		return base - 161
	default:
		return base - 78
	}
}

// ActivityMultiplier returns the TDEE factor for level, defaulting to sedentary.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(level)]; ok {
		return m
	}
	return activityMultipliers["sedentary"]
}

// DailyTarget adjusts tdee for goal and never returns less than MinDailyCalories.
func DailyTarget(tdee int, goal string) int {
	return max(tdee+goalAdjustments[strings.ToLower(goal)], MinDailyCalories)
}

// Estimate computes BMR, TDEE and the daily calorie target.
func Estimate(in EnergyInput) EnergyEstimate {
	bmr := BMR(in.Age, in.Weight, in.Height, in.Gender)
	mult := ActivityMultiplier(in.ActivityLevel)
	tdee := int(math.Round(bmr * mult))
	return EnergyEstimate{
		BMR:                int(math.Round(bmr)),
		TDEE:               tdee,
		ActivityMultiplier: mult,
		DailyTarget:        DailyTarget(tdee, in.Goal),
		Goal:               in.Goal,
	}
}
