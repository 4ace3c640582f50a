package usda

import "math"

// Nutrient ids in FoodData Central.
const (
	NutrientEnergy  = 1008
	NutrientProtein = 1003
	NutrientCarbs   = 1005
	NutrientFat     = 1004
	NutrientFiber   = 1079
	NutrientSugar   = 2000
	NutrientSodium  = 1093
)

// MaxBatchIDs is the most ids GetFoods accepts per call.
const MaxBatchIDs = 20

// MaxPageSize is the largest page FoodData Central serves.
const MaxPageSize = 200

// FoodItem is one search hit.
type FoodItem struct {
	FdcID       int     `json:"fdc_id"`
	Name        string  `json:"name"`
	BrandOwner  *string `json:"brand_owner"`
	DataType    *string `json:"data_type"`
	Description *string `json:"description"`
}

// FoodNutrition is per 100 g unless a serving is given.
type FoodNutrition struct {
	FdcID       int      `json:"fdc_id"`
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       *float64 `json:"fiber"`
	Sugar       *float64 `json:"sugar"`
	Sodium      *float64 `json:"sodium"`
	ServingSize *float64 `json:"serving_size"`
	ServingUnit *string  `json:"serving_unit"`
	BrandOwner  *string  `json:"brand_owner"`
	DataType    *string  `json:"data_type"`
	Description *string  `json:"description"`
}

type SearchQuery struct {
	Query      string
	PageSize   int
	PageNumber int
	DataTypes  []string
	BrandOwner string
}

type SearchResult struct {
	Foods       []FoodItem `json:"foods"`
	TotalHits   int        `json:"total_hits"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
}

// wire types

type apiFood struct {
	FdcID                  int           `json:"fdcId"`
	Description            string        `json:"description"`
	AdditionalDescriptions string        `json:"additionalDescriptions"`
	BrandOwner             *string       `json:"brandOwner"`
	DataType               *string       `json:"dataType"`
	FoodNutrients          []apiNutrient `json:"foodNutrients"`
	FoodPortions           []apiPortion  `json:"foodPortions"`
}

// apiNutrient accepts both the abridged shape (nutrientId) and the full one
// (nutrient.id).
type apiNutrient struct {
	NutrientID int      `json:"nutrientId"`
	Amount     *float64 `json:"amount"`
	Nutrient   *struct {
		ID int `json:"id"`
	} `json:"nutrient"`
}

func (n apiNutrient) id() int {
	if n.NutrientID != 0 {
		return n.NutrientID
	}
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return 0
}

type apiPortion struct {
	Amount      *float64 `json:"amount"`
	MeasureUnit *struct {
		Name *string `json:"name"`
	} `json:"measureUnit"`
}

type apiSearchResponse struct {
	Foods      []apiFood `json:"foods"`
	TotalHits  int       `json:"totalHits"`
	TotalPages int       `json:"totalPages"`
}

type searchBody struct {
	Query      string   `json:"query"`
	DataType   []string `json:"dataType,omitempty"`
	BrandOwner string   `json:"brandOwner,omitempty"`
}

type batchBody struct {
	FdcIDs []int `json:"fdcIds"`
}

func nutrientAmount(nutrients []apiNutrient, id int) (float64, bool) {
	for _, n := range nutrients {
		if n.id() == id {
			if n.Amount == nil {
				return 0, true
			}
			return *n.Amount, true
		}
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// optional returns nil for absent and zero amounts.
func optional(nutrients []apiNutrient, id int) *float64 {
	v, _ := nutrientAmount(nutrients, id)
	if v == 0 {
		return nil
	}
	r := round2(v)
	return &r
}

func toNutrition(f apiFood) FoodNutrition {
	name := f.Description
	if name == "" {
		name = "Unknown Food"
	}
	calories, _ := nutrientAmount(f.FoodNutrients, NutrientEnergy)
	protein, _ := nutrientAmount(f.FoodNutrients, NutrientProtein)
	carbs, _ := nutrientAmount(f.FoodNutrients, NutrientCarbs)
	fat, _ := nutrientAmount(f.FoodNutrients, NutrientFat)

	out := FoodNutrition{
		FdcID:      f.FdcID,
		Name:       name,
		Calories:   round2(calories),
		Protein:    round2(protein),
		Carbs:      round2(carbs),
		Fat:        round2(fat),
		Fiber:      optional(f.FoodNutrients, NutrientFiber),
		Sugar:      optional(f.FoodNutrients, NutrientSugar),
		Sodium:     optional(f.FoodNutrients, NutrientSodium),
		BrandOwner: f.BrandOwner,
		DataType:   f.DataType,
	}
	if f.Description != "" {
		out.Description = &f.Description
	}
	if len(f.FoodPortions) > 0 {
		p := f.FoodPortions[0]
		out.ServingSize = p.Amount
		if p.MeasureUnit != nil {
			out.ServingUnit = p.MeasureUnit.Name
		}
	}
	return out
}

func toItem(f apiFood) FoodItem {
	name := f.Description
	if name == "" {
		name = "Unknown Food"
	}
	item := FoodItem{
		FdcID:      f.FdcID,
		Name:       name,
		BrandOwner: f.BrandOwner,
		DataType:   f.DataType,
	}
	switch {
	case f.AdditionalDescriptions != "":
		item.Description = &f.AdditionalDescriptions
	case f.Description != "":
		item.Description = &f.Description
	}
	return item
}
