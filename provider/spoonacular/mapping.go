package spoonacular

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/snacktrack/snacktrack-api/catalog"
)

const descriptionMaxRunes = 200

type apiNutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type apiNutrition struct {
	Nutrients []apiNutrient `json:"nutrients"`
}

type apiIngredient struct {
	Name      string        `json:"name"`
	NameClean string        `json:"nameClean"`
	Amount    float64       `json:"amount"`
	Unit      string        `json:"unit"`
	Nutrition *apiNutrition `json:"nutrition"`
}

type apiStep struct {
	Step string `json:"step"`
}

type apiInstructions struct {
	Steps []apiStep `json:"steps"`
}

type apiRecipe struct {
	ID                   int               `json:"id"`
	Title                string            `json:"title"`
	Summary              string            `json:"summary"`
	Image                *string           `json:"image"`
	Cuisines             []string          `json:"cuisines"`
	DishTypes            []string          `json:"dishTypes"`
	Diets                []string          `json:"diets"`
	PreparationMinutes   *int              `json:"preparationMinutes"`
	ReadyInMinutes       int               `json:"readyInMinutes"`
	CookingMinutes       *int              `json:"cookingMinutes"`
	Servings             int               `json:"servings"`
	PricePerServing      float64           `json:"pricePerServing"`
	SpoonacularScore     float64           `json:"spoonacularScore"`
	AggregateLikes       int               `json:"aggregateLikes"`
	Nutrition            *apiNutrition     `json:"nutrition"`
	ExtendedIngredients  []apiIngredient   `json:"extendedIngredients"`
	AnalyzedInstructions []apiInstructions `json:"analyzedInstructions"`
}

type apiSearchResponse struct {
	Results      []json.RawMessage `json:"results"`
	TotalResults int               `json:"totalResults"`
}

func (n *apiNutrition) find(name string) (float64, bool) {
	if n == nil {
		return 0, false
	}
	for _, v := range n.Nutrients {
		if v.Name == name {
			return v.Amount, true
		}
	}
	return 0, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MealTypeFor derives a meal slot from Spoonacular dish types.
func MealTypeFor(dishTypes []string) string {
	has := func(names ...string) bool {
		for _, d := range dishTypes {
			for _, n := range names {
				if strings.EqualFold(d, n) {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("breakfast", "morning meal"):
		return "breakfast"
	case has("dinner", "main course"):
		return "dinner"
	case has("snack"):
		return "snack"
	default:
		return "lunch"
	}
}

func cleanSummary(s string) string {
	s = strings.NewReplacer("<b>", "", "</b>", "").Replace(s)
	if r := []rune(s); len(r) > descriptionMaxRunes {
		return string(r[:descriptionMaxRunes])
	}
	return s
}

func toRecipe(r apiRecipe) catalog.Recipe {
	calories, _ := r.Nutrition.find("Calories")
	protein, _ := r.Nutrition.find("Protein")
	carbs, _ := r.Nutrition.find("Carbohydrates")
	fat, _ := r.Nutrition.find("Fat")

	nutrition := catalog.NutritionInfo{
		Calories: int(calories),
		Protein:  round1(protein),
		Carbs:    round1(carbs),
		Fat:      round1(fat),
	}
	if fiber, ok := r.Nutrition.find("Fiber"); ok && fiber != 0 {
		nutrition.Fiber = catalog.Ptr(round1(fiber))
	}

	ingredients := make([]catalog.Ingredient, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		name := ing.NameClean
		if name == "" {
			name = ing.Name
		}
		item := catalog.Ingredient{Name: name, Amount: ing.Amount, Unit: ing.Unit}
		if kcal, ok := ing.Nutrition.find("Calories"); ok {
			item.Calories = catalog.Ptr(kcal)
		}
		ingredients = append(ingredients, item)
	}

	instructions := []string{}
	if len(r.AnalyzedInstructions) > 0 {
		for _, s := range r.AnalyzedInstructions[0].Steps {
			instructions = append(instructions, s.Step)
		}
	}

	diets := r.Diets
	if diets == nil {
		diets = []string{}
	}
	tags := append(append([]string{}, diets...), r.DishTypes...)

	cuisine := "International"
	if len(r.Cuisines) > 0 && r.Cuisines[0] != "" {
		cuisine = r.Cuisines[0]
	}

	prep := 0
	if r.PreparationMinutes != nil {
		prep = *r.PreparationMinutes
	}
	if prep <= 0 {
		prep = r.ReadyInMinutes
	}
	cook := 0
	if r.CookingMinutes != nil && *r.CookingMinutes > 0 {
		cook = *r.CookingMinutes
	}
	servings := r.Servings
	if servings <= 0 {
		servings = 2
	}

	out := catalog.Recipe{
		ID:             strconv.Itoa(r.ID),
		Title:          r.Title,
		Description:    cleanSummary(r.Summary),
		Cuisine:        cuisine,
		MealType:       MealTypeFor(r.DishTypes),
		PrepTime:       prep,
		CookTime:       cook,
		Servings:       servings,
		Nutrition:      nutrition,
		Ingredients:    ingredients,
		Instructions:   instructions,
		Tags:           tags,
		Region:         "Global",
		HealthBenefits: []string{},
		SuitableFor:    diets,
		NotSuitableFor: []string{},
		ImageURL:       r.Image,
		ReviewCount:    r.AggregateLikes,
		Status:         catalog.StatusPublished,
	}
	if r.PricePerServing != 0 {
		out.CostPerServing = catalog.Ptr(r.PricePerServing / 100)
	}
	if r.SpoonacularScore != 0 {
		out.Rating = r.SpoonacularScore / 100
	}
	return out
}
