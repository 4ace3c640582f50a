package api

import (
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/catalog"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/httpx/types"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider"
	"github.com/snacktrack/snacktrack-api/provider/spoonacular"
	"go.uber.org/zap"
)

const (
	defaultSearchLimit       = 20
	defaultFeaturedLimit     = 6
	defaultAlternativesLimit = 3
	defaultRegion            = "Southern Europe"
)

// RecipeSearchQuery is the query string of GET /recipes/search.
type RecipeSearchQuery struct {
	Query              string `form:"query" json:"query"`
	Cuisine            string `form:"cuisine" json:"cuisine"`
	Diet               string `form:"diet" json:"diet"`
	ExcludeIngredients string `form:"exclude_ingredients" json:"exclude_ingredients"`
	MaxCalories        int    `form:"max_calories" json:"max_calories"`
	MaxPrepTime        int    `form:"max_prep_time" json:"max_prep_time"`
	types.OffsetQuery
}

func (q RecipeSearchQuery) Validate() error {
	rules := append(q.OffsetQuery.Rules(spoonacular.MaxResults),
		validation.Field(&q.MaxCalories, validation.Min(0)),
		validation.Field(&q.MaxPrepTime, validation.Min(0)),
	)
	return validation.ValidateStruct(&q, rules...)
}

type LimitQuery struct {
	Limit int `form:"limit" json:"limit"`
}

func (q LimitQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(1), validation.Max(spoonacular.MaxResults)),
	)
}

type RegionQuery struct {
	Region string `form:"region" json:"region"`
}

type RecipePath struct {
	ID string `uri:"id"`
}

type AlternativesRequest struct {
	ID    string `uri:"id"`
	Limit int    `form:"limit" json:"limit"`
}

func (r AlternativesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit, validation.Min(1), validation.Max(20)),
	)
}

// RecipeHandler serves /recipes from Spoonacular, falling back to the sample catalog.
type RecipeHandler struct {
	recipes RecipeProvider
	logger  *logger.CtxZapLogger
}

func NewRecipeHandler(recipes RecipeProvider, log *logger.CtxZapLogger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: log}
}

func (h *RecipeHandler) Register(rg gin.IRouter) {
	rg.GET("/search", httpx.Wrap(h.search))
	rg.GET("/featured", httpx.Wrap(h.featured))
	rg.GET("/regional", httpx.Wrap(h.regional))
	rg.GET("/:id", httpx.Wrap(h.get))
	rg.GET("/:id/alternatives", httpx.Wrap(h.alternatives))
}

func (h *RecipeHandler) remote() bool {
	return h.recipes != nil && h.recipes.Configured()
}

func (h *RecipeHandler) search(c *gin.Context, q *RecipeSearchQuery) (*[]catalog.Recipe, error) {
	ctx := c.Request.Context()
	limit := q.LimitOr(defaultSearchLimit)

	if h.remote() {
		found, err := h.recipes.SearchRecipes(ctx, spoonacular.RecipeQuery{
			Query:              q.Query,
			Cuisine:            q.Cuisine,
			Diet:               q.Diet,
			ExcludeIngredients: q.ExcludeIngredients,
			MaxCalories:        q.MaxCalories,
			MaxPrepTime:        q.MaxPrepTime,
			Offset:             q.Offset,
			Limit:              limit,
		})
		if err == nil {
			return &found, nil
		}
		h.logger.WarnCtx(ctx, "recipe search failed, using sample recipes", zap.Error(err))
	}

	filter := catalog.Filter{
		Query:       q.Query,
		Cuisine:     q.Cuisine,
		Diet:        q.Diet,
		MaxCalories: q.MaxCalories,
		MaxPrepTime: q.MaxPrepTime,
	}
	out := filter.Apply(catalog.Published(), q.Offset, limit)
	return &out, nil
}

func (h *RecipeHandler) featured(c *gin.Context, q *LimitQuery) (*[]catalog.Recipe, error) {
	ctx := c.Request.Context()
	limit := q.Limit
	if limit == 0 {
		limit = defaultFeaturedLimit
	}

	if h.remote() {
		found, err := h.recipes.SearchRecipes(ctx, spoonacular.RecipeQuery{Limit: limit})
		if err == nil {
			return &found, nil
		}
		h.logger.WarnCtx(ctx, "featured recipes failed, using sample recipes", zap.Error(err))
	}
	out := catalog.Page(catalog.Published(), 0, limit)
	return &out, nil
}

func (h *RecipeHandler) regional(_ *gin.Context, q *RegionQuery) (*[]catalog.RegionalRecipe, error) {
	region := q.Region
	if region == "" {
		region = defaultRegion
	}
	out := catalog.Regional(region)
	return &out, nil
}

// get serves sample recipes by id and everything numeric from Spoonacular.
func (h *RecipeHandler) get(c *gin.Context, p *RecipePath) (*catalog.Recipe, error) {
	if r, ok := catalog.Find(p.ID); ok {
		return &r, nil
	}
	id, ok := spoonacular.ParseID(p.ID)
	if !ok || !h.remote() {
		return nil, recipeNotFound(p.ID)
	}
	r, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (h *RecipeHandler) alternatives(c *gin.Context, req *AlternativesRequest) (*[]catalog.Recipe, error) {
	ctx := c.Request.Context()
	limit := req.Limit
	if limit == 0 {
		limit = defaultAlternativesLimit
	}

	if id, ok := spoonacular.ParseID(req.ID); ok && h.remote() {
		found, err := h.recipes.Alternatives(ctx, id, limit)
		if err == nil {
			return &found, nil
		}
		h.logger.WarnCtx(ctx, "recipe alternatives failed, using sample recipes",
			zap.String("recipe_id", req.ID), zap.Error(err))
	}

	if _, ok := catalog.Find(req.ID); !ok {
		return nil, recipeNotFound(req.ID)
	}
	out := catalog.Alternatives(catalog.Published(), req.ID, spoonacular.AlternativeCalorieWindow, limit)
	if out == nil {
		out = []catalog.Recipe{}
	}
	return &out, nil
}

func recipeNotFound(id string) error {
	return provider.ErrProviderNotFound.WithMsgf("Recipe %s not found", id)
}
