// Package catalog defines the recipe model served by the recipe routes and the static
// sample catalog used when no recipe provider is available.
package catalog

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	Unit     string   `json:"unit"`
	Calories *float64 `json:"calories"`
	Optional bool     `json:"optional"`
}

// NutritionInfo is per serving.
type NutritionInfo struct {
	Calories int      `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
	Sodium   *float64 `json:"sodium"`
}

type Recipe struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cuisine     string `json:"cuisine"`
	MealType    string `json:"meal_type"`
	PrepTime    int    `json:"prep_time"`
	CookTime    int    `json:"cook_time"`
	Servings    int    `json:"servings"`

	Nutrition    NutritionInfo `json:"nutrition"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []string      `json:"instructions"`

	Tags           []string `json:"tags"`
	Region         string   `json:"region"`
	CostPerServing *float64 `json:"cost_per_serving"`

	HealthBenefits []string `json:"health_benefits"`
	SuitableFor    []string `json:"suitable_for"`
	NotSuitableFor []string `json:"not_suitable_for"`

	ImageURL    *string `json:"image_url"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Status      string  `json:"status"`
}

// RegionalRecipe is the compact shape returned by the regional ideas route.
type RegionalRecipe struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Cuisine      string             `json:"cuisine"`
	Calories     int                `json:"calories"`
	Macros       map[string]float64 `json:"macros"`
	Ingredients  []string           `json:"ingredients"`
	Instructions string             `json:"instructions"`
	Region       string             `json:"region"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
