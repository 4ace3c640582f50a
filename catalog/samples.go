package catalog

import "strings"

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
)

var samples = []Recipe{
	{
		ID:          "recipe_1",
		Title:       "Mediterranean Quinoa Bowl",
		Description: "Fluffy quinoa with cucumber, tomato, olives and feta in a lemon dressing.",
		Cuisine:     "Mediterranean",
		MealType:    "lunch",
		PrepTime:    15,
		CookTime:    15,
		Servings:    2,
		Nutrition: NutritionInfo{
			Calories: 420, Protein: 18, Carbs: 55, Fat: 12,
			Fiber: Ptr(8.0), Sugar: Ptr(6.0), Sodium: Ptr(480.0),
		},
		Ingredients: []Ingredient{
			{Name: "quinoa", Amount: 1, Unit: "cup", Calories: Ptr(222.0)},
			{Name: "cucumber", Amount: 1, Unit: "piece", Calories: Ptr(16.0)},
			{Name: "cherry tomatoes", Amount: 150, Unit: "g", Calories: Ptr(27.0)},
			{Name: "feta", Amount: 50, Unit: "g", Calories: Ptr(132.0)},
			{Name: "kalamata olives", Amount: 8, Unit: "piece", Calories: Ptr(35.0), Optional: true},
		},
		Instructions: []string{
			"Rinse the quinoa and simmer it for 15 minutes.",
			"Chop the vegetables.",
			"Toss everything with lemon juice and olive oil, then top with feta.",
		},
		Tags:           []string{"vegetarian", "high-fiber", "mediterranean"},
		Region:         "Southern Europe",
		CostPerServing: Ptr(3.2),
		HealthBenefits: []string{"heart-healthy fats", "complete plant protein"},
		SuitableFor:    []string{"vegetarian", "hypertension"},
		NotSuitableFor: []string{"dairy-free"},
		Rating:         4.8,
		ReviewCount:    1234,
		Status:         StatusPublished,
	},
	{
		ID:          "recipe_2",
		Title:       "Grilled Salmon",
		Description: "Salmon fillet grilled with garlic and herbs, served with asparagus.",
		Cuisine:     "American",
		MealType:    "dinner",
		PrepTime:    10,
		CookTime:    15,
		Servings:    2,
		Nutrition: NutritionInfo{
			Calories: 520, Protein: 42, Carbs: 8, Fat: 34,
			Fiber: Ptr(3.0), Sodium: Ptr(390.0),
		},
		Ingredients: []Ingredient{
			{Name: "salmon fillet", Amount: 300, Unit: "g", Calories: Ptr(624.0)},
			{Name: "asparagus", Amount: 200, Unit: "g", Calories: Ptr(40.0)},
			{Name: "garlic", Amount: 2, Unit: "clove", Calories: Ptr(9.0)},
			{Name: "olive oil", Amount: 1, Unit: "tbsp", Calories: Ptr(119.0)},
		},
		Instructions: []string{
			"Season the salmon with garlic, herbs, salt and pepper.",
			"Grill for 4 to 5 minutes per side.",
			"Grill the asparagus alongside and serve.",
		},
		Tags:           []string{"high-protein", "gluten-free", "low-carb"},
		Region:         "North America",
		CostPerServing: Ptr(7.5),
		HealthBenefits: []string{"omega-3 fatty acids"},
		SuitableFor:    []string{"gluten-free", "diabetes"},
		Rating:         4.9,
		ReviewCount:    987,
		Status:         StatusPublished,
	},
	{
		ID:          "recipe_3",
		Title:       "Chicken Tikka Masala",
		Description: "Marinated chicken simmered in a spiced tomato and yogurt sauce.",
		Cuisine:     "Indian",
		MealType:    "dinner",
		PrepTime:    20,
		CookTime:    30,
		Servings:    4,
		Nutrition: NutritionInfo{
			Calories: 480, Protein: 38, Carbs: 22, Fat: 26,
			Fiber: Ptr(4.0), Sugar: Ptr(9.0), Sodium: Ptr(720.0),
		},
		Ingredients: []Ingredient{
			{Name: "chicken breast", Amount: 600, Unit: "g", Calories: Ptr(990.0)},
			{Name: "yogurt", Amount: 150, Unit: "g", Calories: Ptr(92.0)},
			{Name: "crushed tomatoes", Amount: 400, Unit: "g", Calories: Ptr(128.0)},
			{Name: "garam masala", Amount: 2, Unit: "tsp", Calories: Ptr(12.0)},
		},
		Instructions: []string{
			"Marinate the chicken in yogurt and spices for at least 15 minutes.",
			"Sear the chicken, then add the tomatoes.",
			"Simmer for 20 minutes and finish with a splash of cream.",
		},
		Tags:           []string{"high-protein", "spicy"},
		Region:         "South Asia",
		CostPerServing: Ptr(4.1),
		SuitableFor:    []string{"gluten-free"},
		NotSuitableFor: []string{"dairy-free"},
		Rating:         4.7,
		ReviewCount:    2341,
		Status:         StatusPublished,
	},
	{
		ID:          "recipe_4",
		Title:       "Thai Green Curry",
		Description: "Vegetables and tofu in a fragrant coconut green curry.",
		Cuisine:     "Thai",
		MealType:    "dinner",
		PrepTime:    15,
		CookTime:    20,
		Servings:    3,
		Nutrition: NutritionInfo{
			Calories: 450, Protein: 16, Carbs: 30, Fat: 30,
		},
		Ingredients: []Ingredient{
			{Name: "firm tofu", Amount: 300, Unit: "g"},
			{Name: "coconut milk", Amount: 400, Unit: "ml"},
			{Name: "green curry paste", Amount: 3, Unit: "tbsp"},
		},
		Instructions: []string{
			"Fry the curry paste until fragrant.",
			"Add coconut milk, tofu and vegetables and simmer for 15 minutes.",
		},
		Tags:        []string{"vegan", "spicy"},
		Region:      "Southeast Asia",
		SuitableFor: []string{"vegan", "vegetarian"},
		Status:      StatusDraft,
	},
	{
		ID:          "recipe_5",
		Title:       "Greek Salad",
		Description: "Tomatoes, cucumber, red onion and olives with a slab of feta.",
		Cuisine:     "Greek",
		MealType:    "lunch",
		PrepTime:    10,
		CookTime:    0,
		Servings:    2,
		Nutrition: NutritionInfo{
			Calories: 280, Protein: 9, Carbs: 14, Fat: 21,
			Fiber: Ptr(4.0), Sugar: Ptr(8.0), Sodium: Ptr(650.0),
		},
		Ingredients: []Ingredient{
			{Name: "tomatoes", Amount: 3, Unit: "piece", Calories: Ptr(66.0)},
			{Name: "cucumber", Amount: 1, Unit: "piece", Calories: Ptr(16.0)},
			{Name: "feta", Amount: 100, Unit: "g", Calories: Ptr(264.0)},
			{Name: "red onion", Amount: 0.5, Unit: "piece", Calories: Ptr(22.0)},
		},
		Instructions: []string{
			"Cut the vegetables into chunks.",
			"Top with feta and olives and dress with olive oil and oregano.",
		},
		Tags:           []string{"vegetarian", "low-calorie", "mediterranean"},
		Region:         "Southern Europe",
		CostPerServing: Ptr(2.8),
		SuitableFor:    []string{"vegetarian", "diabetes"},
		NotSuitableFor: []string{"dairy-free"},
		Rating:         4.5,
		ReviewCount:    756,
		Status:         StatusPublished,
	},
}

// All returns every sample recipe, drafts included.
func All() []Recipe {
	return append([]Recipe(nil), samples...)
}

// Published returns the sample recipes visible to users.
func Published() []Recipe {
	out := make([]Recipe, 0, len(samples))
	for _, r := range samples {
		if r.Status == StatusPublished {
			out = append(out, r)
		}
	}
	return out
}

// Find looks a sample recipe up by id.
func Find(id string) (Recipe, bool) {
	for _, r := range samples {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// Regional returns placeholder ideas tagged with region.
func Regional(region string) []RegionalRecipe {
	region = strings.TrimSpace(region)
	return []RegionalRecipe{
		{
			ID:           "gazpacho",
			Title:        "Chilled Gazpacho",
			Cuisine:      "spanish",
			Calories:     150,
			Macros:       map[string]float64{"protein": 4, "carbs": 20, "fat": 6},
			Ingredients:  []string{"tomatoes", "cucumber", "bell pepper"},
			Instructions: "Blend vegetables with olive oil and chill.",
			Region:       region,
		},
		{
			ID:           "herb-quinoa",
			Title:        "Herb-Infused Quinoa Bowl",
			Cuisine:      "mediterranean",
			Calories:     420,
			Macros:       map[string]float64{"protein": 18, "carbs": 55, "fat": 12},
			Ingredients:  []string{"quinoa", "olive oil", "parsley", "feta"},
			Instructions: "Simmer quinoa and toss with herbs and feta.",
			Region:       region,
		},
	}
}
