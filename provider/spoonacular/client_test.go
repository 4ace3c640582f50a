package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/snacktrack/snacktrack-api/cache"
	"github.com/snacktrack/snacktrack-api/errcode"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeJSON = `{
	"id": %d,
	"title": "Shakshuka",
	"summary": "<b>Eggs</b> poached in a spiced tomato sauce.",
	"image": "https://img.example/shakshuka.jpg",
	"cuisines": [],
	"dishTypes": ["Morning Meal", "brunch"],
	"diets": ["vegetarian", "gluten free"],
	"preparationMinutes": null,
	"readyInMinutes": 35,
	"cookingMinutes": 25,
	"servings": 0,
	"pricePerServing": 187.5,
	"spoonacularScore": 92,
	"aggregateLikes": 48,
	"nutrition": {"nutrients": [
		{"name": "Calories", "amount": %d.7},
		{"name": "Protein", "amount": 17.36},
		{"name": "Carbohydrates", "amount": 21.04},
		{"name": "Fat", "amount": 18.96},
		{"name": "Fiber", "amount": 5.12}
	]},
	"extendedIngredients": [
		{"name": "large eggs", "nameClean": "egg", "amount": 4, "unit": "", "nutrition": {"nutrients": [{"name": "Calories", "amount": 286}]}},
		{"name": "crushed tomatoes", "nameClean": "", "amount": 400, "unit": "g"}
	],
	"analyzedInstructions": [{"steps": [{"step": "Simmer the sauce."}, {"step": "Crack in the eggs."}]}]
}`

func recipe(id, kcal int) string {
	return fmt.Sprintf(recipeJSON, id, kcal)
}

type recorder struct {
	hits  atomic.Int64
	query atomic.Value
}

func newServer(t *testing.T, rec *recorder, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.hits.Add(1)
		rec.query.Store(r.URL.Query())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	store := cache.NewFallbackStore(cache.Config{}, nil, logger.Nop())
	return NewClient(Config{APIKey: "spoon-key", BaseURL: baseURL}, store, logger.Nop())
}

func TestGetRecipe_Mapping(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/716429/information", r.URL.Path)
		_, _ = w.Write([]byte(recipe(716429, 312)))
	})
	c := newTestClient(srv.URL)

	got, err := c.GetRecipe(context.Background(), 716429)
	require.NoError(t, err)

	q := rec.query.Load().(url.Values)
	assert.Equal(t, "spoon-key", q.Get("apiKey"))
	assert.Equal(t, "true", q.Get("includeNutrition"))

	assert.Equal(t, "716429", got.ID)
	assert.Equal(t, "Eggs poached in a spiced tomato sauce.", got.Description)
	assert.Equal(t, "International", got.Cuisine)
	assert.Equal(t, "breakfast", got.MealType)
	assert.Equal(t, 35, got.PrepTime, "falls back to readyInMinutes")
	assert.Equal(t, 25, got.CookTime)
	assert.Equal(t, 2, got.Servings)
	assert.Equal(t, 312, got.Nutrition.Calories)
	assert.Equal(t, 17.4, got.Nutrition.Protein)
	assert.Equal(t, 21.0, got.Nutrition.Carbs)
	assert.Equal(t, 19.0, got.Nutrition.Fat)
	require.NotNil(t, got.Nutrition.Fiber)
	assert.Equal(t, 5.1, *got.Nutrition.Fiber)

	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "egg", got.Ingredients[0].Name)
	assert.Equal(t, 286.0, *got.Ingredients[0].Calories)
	assert.Equal(t, "crushed tomatoes", got.Ingredients[1].Name)
	assert.Nil(t, got.Ingredients[1].Calories)

	assert.Equal(t, []string{"Simmer the sauce.", "Crack in the eggs."}, got.Instructions)
	assert.Equal(t, []string{"vegetarian", "gluten free", "Morning Meal", "brunch"}, got.Tags)
	assert.Equal(t, []string{"vegetarian", "gluten free"}, got.SuitableFor)
	assert.Equal(t, "Global", got.Region)
	assert.Equal(t, 1.875, *got.CostPerServing)
	assert.Equal(t, 0.92, got.Rating)
	assert.Equal(t, 48, got.ReviewCount)
}

func TestGetRecipe_Cached(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(recipe(1, 100)))
	})
	c := newTestClient(srv.URL)

	for range 3 {
		_, err := c.GetRecipe(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), rec.hits.Load())
}

func TestSearchRecipes(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		fmt.Fprintf(w, `{"results": [%s, {"id": "not-a-number"}, %s], "totalResults": 3}`,
			recipe(1, 300), recipe(2, 450))
	})
	c := newTestClient(srv.URL)

	got, err := c.SearchRecipes(context.Background(), RecipeQuery{
		Query: "pasta", Diet: "vegetarian", MaxPrepTime: 30, Limit: 500, Offset: 10,
	})
	require.NoError(t, err)
	require.Len(t, got, 2, "undecodable results are skipped")
	assert.Equal(t, "2", got[1].ID)

	q := rec.query.Load().(url.Values)
	assert.Equal(t, "100", q.Get("number"))
	assert.Equal(t, "10", q.Get("offset"))
	assert.Equal(t, "pasta", q.Get("query"))
	assert.Equal(t, "vegetarian", q.Get("diet"))
	assert.Equal(t, "30", q.Get("maxReadyTime"))
	assert.Equal(t, "true", q.Get("addRecipeNutrition"))
	assert.Empty(t, q.Get("cuisine"))
	assert.Empty(t, q.Get("maxCalories"))
}

func TestAlternatives(t *testing.T) {
	rec := &recorder{}
	srv := newServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/recipes/7/information" {
			_, _ = w.Write([]byte(recipe(7, 50)))
			return
		}
		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("minCalories"))
		assert.Equal(t, "150", q.Get("maxCalories"))
		assert.Equal(t, "3", q.Get("number"))
		fmt.Fprintf(w, `{"results": [%s, %s, %s]}`, recipe(7, 50), recipe(8, 60), recipe(9, 70))
	})
	c := newTestClient(srv.URL)

	got, err := c.Alternatives(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "8", got[0].ID)
	assert.Equal(t, "9", got[1].ID)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   *errcode.LayeredError
		msg    string
	}{
		{http.StatusUnauthorized, provider.ErrProviderUnauthorized, "Invalid Spoonacular API key"},
		{http.StatusPaymentRequired, provider.ErrProviderQuota, "Spoonacular API quota exceeded. Please check your plan."},
		{http.StatusTooManyRequests, provider.ErrProviderRateLimited, "Spoonacular API rate limit exceeded. Please try again later."},
		{http.StatusInternalServerError, provider.ErrProviderUnreachable, "Failed to connect to Spoonacular API: 500 Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := newServer(t, &recorder{}, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := newTestClient(srv.URL).SearchRecipes(context.Background(), RecipeQuery{})
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.msg, err.(*errcode.LayeredError).Message())
			assert.Equal(t, tc.want.HTTPStatus(), errcode.StatusOf(err))
		})
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{}, cache.NewFallbackStore(cache.Config{}, nil, logger.Nop()), logger.Nop())
	_, err := c.SearchRecipes(context.Background(), RecipeQuery{})
	require.ErrorIs(t, err, provider.ErrProviderNotConfigured)
	_, err = c.Alternatives(context.Background(), 1, 3)
	require.ErrorIs(t, err, provider.ErrProviderNotConfigured)
}

func TestMealTypeFor(t *testing.T) {
	assert.Equal(t, "breakfast", MealTypeFor([]string{"breakfast"}))
	assert.Equal(t, "dinner", MealTypeFor([]string{"side dish", "Main Course"}))
	assert.Equal(t, "snack", MealTypeFor([]string{"snack"}))
	assert.Equal(t, "lunch", MealTypeFor(nil))
	assert.Equal(t, "breakfast", MealTypeFor([]string{"dinner", "breakfast"}), "breakfast wins")
}

func TestCleanSummary_Truncates(t *testing.T) {
	long := ""
	for range 250 {
		long += "é"
	}
	assert.Len(t, []rune(cleanSummary(long)), 200)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("716429")
	assert.True(t, ok)
	assert.Equal(t, 716429, id)

	_, ok = ParseID("recipe_1")
	assert.False(t, ok)
}
