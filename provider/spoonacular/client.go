// Package spoonacular searches and fetches recipes from the Spoonacular API and maps
// them onto catalog recipes.
package spoonacular

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/snacktrack/snacktrack-api/cache"
	"github.com/snacktrack/snacktrack-api/catalog"
	"github.com/snacktrack/snacktrack-api/httpclient"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider"
	"go.uber.org/zap"
)

const (
	SearchCachePrefix = "spoonacular:search"
	RecipeCachePrefix = "spoonacular:recipe"
	SearchCacheTTL    = cache.TTLSixHours
	RecipeCacheTTL    = cache.TTLOneDay

	// MaxResults is the largest page complexSearch returns.
	MaxResults = 100
	// AlternativeCalorieWindow bounds how far an alternative may drift in kcal.
	AlternativeCalorieWindow = 100
)

var ErrNotConfigured = provider.ErrProviderNotConfigured.WithMsg("Spoonacular API key not configured")

// RecipeQuery holds complexSearch filters. Zero values are omitted.
type RecipeQuery struct {
	Query              string
	Cuisine            string
	Diet               string
	ExcludeIngredients string
	MaxCalories        int
	MaxPrepTime        int
	Offset             int
	Limit              int
}

type Client struct {
	config Config
	http   *httpclient.Client
	cache  cache.JSONStore
	logger *logger.CtxZapLogger
}

func NewClient(cfg Config, store cache.JSONStore, log *logger.CtxZapLogger) *Client {
	cfg.ApplyDefaults()
	if !cfg.Configured() {
		log.Warn("Spoonacular API key not configured. Recipe endpoints will use sample data.")
	}
	return &Client{
		config: cfg,
		http: httpclient.NewClient(
			httpclient.WithBaseURL(cfg.BaseURL),
			httpclient.WithTimeout(cfg.Timeout),
			httpclient.WithQuery("apiKey", cfg.APIKey),
			httpclient.WithHeader("Content-Type", "application/json"),
			httpclient.WithBreaker(httpclient.NewBreaker("spoonacular", cfg.Breaker, log)),
			httpclient.WithRetry(cfg.Retry),
		),
		cache:  store,
		logger: log,
	}
}

func (c *Client) Configured() bool {
	return c.config.Configured()
}

func (c *Client) BreakerState() string {
	return c.http.BreakerState()
}

// SearchRecipes runs complexSearch. Results are cached for six hours; results that
// cannot be decoded are skipped.
func (c *Client) SearchRecipes(ctx context.Context, q RecipeQuery) ([]catalog.Recipe, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	q.Limit = min(q.Limit, MaxResults)
	q.Offset = max(q.Offset, 0)

	kwargs := map[string]any{"offset": q.Offset, "limit": q.Limit}
	for name, v := range map[string]string{
		"query":               q.Query,
		"cuisine":             q.Cuisine,
		"diet":                q.Diet,
		"exclude_ingredients": q.ExcludeIngredients,
	} {
		if v != "" {
			kwargs[name] = v
		}
	}
	if q.MaxCalories > 0 {
		kwargs["max_calories"] = q.MaxCalories
	}
	if q.MaxPrepTime > 0 {
		kwargs["max_prep_time"] = q.MaxPrepTime
	}

	return cache.Memoize(ctx, c.cache, SearchCachePrefix, SearchCacheTTL, nil, kwargs,
		func(ctx context.Context) ([]catalog.Recipe, error) {
			req := searchRequest(q.Limit).WithQuery("offset", strconv.Itoa(q.Offset))
			setIf(req, "query", q.Query)
			setIf(req, "cuisine", q.Cuisine)
			setIf(req, "diet", q.Diet)
			setIf(req, "excludeIngredients", q.ExcludeIngredients)
			if q.MaxCalories > 0 {
				req.WithQuery("maxCalories", strconv.Itoa(q.MaxCalories))
			}
			if q.MaxPrepTime > 0 {
				req.WithQuery("maxReadyTime", strconv.Itoa(q.MaxPrepTime))
			}
			return c.search(ctx, req, "Failed to search recipes")
		})
}

// GetRecipe fetches one recipe with nutrition. Results are cached for a day.
func (c *Client) GetRecipe(ctx context.Context, id int) (catalog.Recipe, error) {
	if !c.Configured() {
		return catalog.Recipe{}, ErrNotConfigured
	}
	return cache.Memoize(ctx, c.cache, RecipeCachePrefix, RecipeCacheTTL, []any{id}, nil,
		func(ctx context.Context) (catalog.Recipe, error) {
			path := "/recipes/" + strconv.Itoa(id) + "/information"
			req := httpclient.NewGetRequest(path).WithQuery("includeNutrition", "true")
			body, err := c.do(ctx, req)
			if err != nil {
				return catalog.Recipe{}, err
			}
			var raw apiRecipe
			if err := json.Unmarshal(body, &raw); err != nil {
				c.logger.ErrorCtx(ctx, "Error fetching recipe", zap.Int("recipe_id", id), zap.Error(err))
				return catalog.Recipe{}, provider.ErrProviderNotFound.Wrapf(err, "Recipe %d not found", id)
			}
			return toRecipe(raw), nil
		})
}

// Alternatives returns up to limit recipes within AlternativeCalorieWindow kcal of the
// recipe with id, excluding that recipe.
func (c *Client) Alternatives(ctx context.Context, id, limit int) ([]catalog.Recipe, error) {
	if limit <= 0 {
		limit = 3
	}
	original, err := c.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	kcal := original.Nutrition.Calories
	req := searchRequest(limit+1).
		WithQuery("minCalories", strconv.Itoa(max(0, kcal-AlternativeCalorieWindow))).
		WithQuery("maxCalories", strconv.Itoa(kcal+AlternativeCalorieWindow))
	found, err := c.search(ctx, req, "Failed to fetch recipe alternatives")
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Recipe, 0, limit)
	for _, r := range found {
		if r.ID == original.ID {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func searchRequest(number int) *httpclient.Request {
	return httpclient.NewGetRequest("/recipes/complexSearch").
		WithQuery("number", strconv.Itoa(number)).
		WithQuery("addRecipeInformation", "true").
		WithQuery("addRecipeNutrition", "true").
		WithQuery("fillIngredients", "true")
}

func setIf(req *httpclient.Request, key, value string) {
	if value != "" {
		req.WithQuery(key, value)
	}
}

func (c *Client) search(ctx context.Context, req *httpclient.Request, failMsg string) ([]catalog.Recipe, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var raw apiSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.ErrorCtx(ctx, "Error searching recipes", zap.Error(err))
		return nil, provider.ErrProviderFailed.Wrapf(err, "%s: %v", failMsg, err)
	}

	recipes := make([]catalog.Recipe, 0, len(raw.Results))
	for _, item := range raw.Results {
		var r apiRecipe
		if err := json.Unmarshal(item, &r); err != nil {
			c.logger.WarnCtx(ctx, "Failed to map recipe", zap.ByteString("recipe", truncate(item, 64)), zap.Error(err))
			continue
		}
		recipes = append(recipes, toRecipe(r))
	}
	return recipes, nil
}

func (c *Client) do(ctx context.Context, req *httpclient.Request) ([]byte, error) {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorCtx(ctx, "Spoonacular API request failed", zap.String("path", req.URL), zap.Error(err))
		return nil, provider.ErrProviderUnreachable.Wrapf(err, "Failed to connect to Spoonacular API: %v", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, provider.ErrProviderUnauthorized.WithMsg("Invalid Spoonacular API key")
	case http.StatusPaymentRequired:
		return nil, provider.ErrProviderQuota.WithMsg("Spoonacular API quota exceeded. Please check your plan.")
	case http.StatusTooManyRequests:
		return nil, provider.ErrProviderRateLimited.WithMsg("Spoonacular API rate limit exceeded. Please try again later.")
	}
	if !resp.IsSuccess() {
		c.logger.ErrorCtx(ctx, "Spoonacular API request failed",
			zap.String("path", req.URL), zap.Int("status", resp.StatusCode))
		return nil, provider.ErrProviderUnreachable.WithMsgf("Failed to connect to Spoonacular API: %s", resp.Status)
	}
	return resp.Body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// ParseID converts a route id into a Spoonacular recipe id.
func ParseID(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	return n, err == nil && n > 0
}
