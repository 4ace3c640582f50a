package nutrition

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// PlanDays is how many days a generated plan covers.
	PlanDays           = 3
	DefaultMealsPerDay = 3
	dateLayout         = "2006-01-02"
)

// MacroSplit is the default percentage split of calories.
var MacroSplit = map[string]float64{"protein": 30, "carbs": 45, "fat": 25}

type MealItem struct {
	RecipeID    string             `json:"recipe_id"`
	Title       string             `json:"title"`
	Calories    int                `json:"calories"`
	Macros      map[string]float64 `json:"macros"`
	Ingredients []string           `json:"ingredients"`
}

type DailyMealPlan struct {
	Day   string     `json:"day"`
	Meals []MealItem `json:"meals"`
}

type MealPlan struct {
	ProfileID         string             `json:"profile_id"`
	TotalCalories     int                `json:"total_calories"`
	MacroDistribution map[string]float64 `json:"macro_distribution"`
	Plan              []DailyMealPlan    `json:"plan"`
}

// PlanRequest asks for a plan starting on TargetDate (YYYY-MM-DD).
type PlanRequest struct {
	ProfileID   string `json:"profile_id"`
	TargetDate  string `json:"target_date"`
	MealsPerDay int    `json:"meals_per_day"`
}

func (r PlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProfileID, validation.Required),
		validation.Field(&r.TargetDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.MealsPerDay, validation.Min(1), validation.Max(6)),
	)
}

// Planner is a rule-based plan generator.
type Planner struct {
	staple MealItem
}

func NewPlanner() *Planner {
	return &Planner{staple: MealItem{
		RecipeID:    "herb-quinoa",
		Title:       "Herb-Infused Quinoa Bowl",
		Calories:    420,
		Macros:      map[string]float64{"protein": 18, "carbs": 55, "fat": 12},
		Ingredients: []string{"quinoa", "olive oil", "parsley", "feta"},
	}}
}

// Generate builds a PlanDays-day plan. A zero MealsPerDay means DefaultMealsPerDay.
// TargetDate must already be valid.
func (p *Planner) Generate(req PlanRequest) (MealPlan, error) {
	start, err := time.Parse(dateLayout, req.TargetDate)
	if err != nil {
		return MealPlan{}, err
	}
	perDay := req.MealsPerDay
	if perDay == 0 {
		perDay = DefaultMealsPerDay
	}

	plan := MealPlan{
		ProfileID:         req.ProfileID,
		MacroDistribution: MacroSplit,
		Plan:              make([]DailyMealPlan, 0, PlanDays),
	}
	for offset := range PlanDays {
		meals := make([]MealItem, perDay)
		for i := range meals {
			meals[i] = p.staple
			plan.TotalCalories += p.staple.Calories
		}
		plan.Plan = append(plan.Plan, DailyMealPlan{
			Day:   start.AddDate(0, 0, offset).Format(dateLayout),
			Meals: meals,
		})
	}
	return plan, nil
}

// Sample is the demo plan for today.
func (p *Planner) Sample(now time.Time) MealPlan {
	plan, _ := p.Generate(PlanRequest{
		ProfileID:   "demo-user",
		TargetDate:  now.Format(dateLayout),
		MealsPerDay: DefaultMealsPerDay,
	})
	return plan
}
