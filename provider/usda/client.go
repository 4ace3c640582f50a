// Package usda is the USDA FoodData Central client: food search and nutrient lookup,
// bounded by an hourly request quota and cached through the shared response cache.
package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/snacktrack/snacktrack-api/cache"
	"github.com/snacktrack/snacktrack-api/httpclient"
	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider"
	"go.uber.org/zap"
)

const (
	SearchCachePrefix = "usda:search"
	FoodCachePrefix   = "usda:food"
	SearchCacheTTL    = cache.TTLOneHour
	FoodCacheTTL      = cache.TTLSevenDays

	quotaWindow = time.Hour
)

var ErrNotConfigured = provider.ErrProviderNotConfigured.WithMsg("USDA API key not configured")

// Client is safe for concurrent use.
type Client struct {
	config  Config
	http    *httpclient.Client
	counter limiter.Counter
	cache   cache.JSONStore
	logger  *logger.CtxZapLogger
	now     func() time.Time
}

// NewClient builds the client. counter may be nil to skip the hourly quota.
func NewClient(cfg Config, counter limiter.Counter, store cache.JSONStore, log *logger.CtxZapLogger) *Client {
	cfg.ApplyDefaults()
	if !cfg.Configured() {
		log.Warn("USDA API key not configured. Food nutrition lookup will not be available.")
	}
	return &Client{
		config: cfg,
		http: httpclient.NewClient(
			httpclient.WithBaseURL(cfg.BaseURL),
			httpclient.WithTimeout(cfg.Timeout),
			httpclient.WithQuery("api_key", cfg.APIKey),
			httpclient.WithBreaker(httpclient.NewBreaker("usda", cfg.Breaker, log)),
			httpclient.WithRetry(cfg.Retry),
		),
		counter: counter,
		cache:   store,
		logger:  log,
		now:     time.Now,
	}
}

func (c *Client) Configured() bool {
	return c.config.Configured()
}

// BreakerState reports the upstream circuit breaker state.
func (c *Client) BreakerState() string {
	return c.http.BreakerState()
}

// QuotaKey is the counter key for the hour containing now.
func QuotaKey(now time.Time) string {
	return fmt.Sprintf("usda:rl:%d", limiter.WindowIndex(now, quotaWindow))
}

// SearchFoods runs a full-text search. Results are cached for an hour.
func (c *Client) SearchFoods(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return SearchResult{}, provider.ErrProviderBadRequest.WithMsg("Search query cannot be empty")
	}
	if !c.Configured() {
		return SearchResult{}, ErrNotConfigured
	}
	if q.PageSize <= 0 {
		q.PageSize = 50
	}
	q.PageSize = min(q.PageSize, MaxPageSize)
	if q.PageNumber <= 0 {
		q.PageNumber = 1
	}

	kwargs := map[string]any{
		"page_size":   q.PageSize,
		"page_number": q.PageNumber,
	}
	if len(q.DataTypes) > 0 {
		kwargs["data_type"] = strings.Join(q.DataTypes, ",")
	}
	if q.BrandOwner != "" {
		kwargs["brand_owner"] = q.BrandOwner
	}

	return cache.Memoize(ctx, c.cache, SearchCachePrefix, SearchCacheTTL, []any{q.Query}, kwargs,
		func(ctx context.Context) (SearchResult, error) {
			return c.searchFoods(ctx, q)
		})
}

func (c *Client) searchFoods(ctx context.Context, q SearchQuery) (SearchResult, error) {
	req := httpclient.NewPostRequest("/foods/search").
		WithQuery("pageSize", strconv.Itoa(q.PageSize)).
		WithQuery("pageNumber", strconv.Itoa(q.PageNumber)).
		WithJSON(searchBody{Query: q.Query, DataType: q.DataTypes, BrandOwner: q.BrandOwner})

	body, err := c.do(ctx, req)
	if err != nil {
		return SearchResult{}, err
	}

	var raw apiSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.ErrorCtx(ctx, "Error searching foods", zap.Error(err))
		return SearchResult{}, provider.ErrProviderFailed.Wrapf(err, "Failed to search foods: %v", err)
	}

	out := SearchResult{
		Foods:       make([]FoodItem, 0, len(raw.Foods)),
		TotalHits:   raw.TotalHits,
		CurrentPage: q.PageNumber,
		TotalPages:  raw.TotalPages,
	}
	for _, f := range raw.Foods {
		out.Foods = append(out.Foods, toItem(f))
	}
	return out, nil
}

// GetFood looks up one food by FDC id. Results are cached for seven days.
func (c *Client) GetFood(ctx context.Context, fdcID int) (FoodNutrition, error) {
	if !c.Configured() {
		return FoodNutrition{}, ErrNotConfigured
	}
	return cache.Memoize(ctx, c.cache, FoodCachePrefix, FoodCacheTTL, []any{fdcID}, nil,
		func(ctx context.Context) (FoodNutrition, error) {
			return c.getFood(ctx, fdcID)
		})
}

func (c *Client) getFood(ctx context.Context, fdcID int) (FoodNutrition, error) {
	body, err := c.do(ctx, httpclient.NewGetRequest("/food/"+strconv.Itoa(fdcID)))
	if err != nil {
		return FoodNutrition{}, err
	}

	var raw apiFood
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.ErrorCtx(ctx, "Error fetching food", zap.Int("fdc_id", fdcID), zap.Error(err))
		return FoodNutrition{}, provider.ErrProviderNotFound.Wrapf(err, "Food %d not found", fdcID)
	}
	if raw.FdcID == 0 {
		return FoodNutrition{}, provider.ErrProviderNotFound.WithMsgf("Food with FDC ID %d not found", fdcID)
	}
	return toNutrition(raw), nil
}

// GetFoods fetches up to MaxBatchIDs foods in one call. It is not cached.
func (c *Client) GetFoods(ctx context.Context, fdcIDs []int) ([]FoodNutrition, error) {
	if len(fdcIDs) == 0 {
		return []FoodNutrition{}, nil
	}
	if len(fdcIDs) > MaxBatchIDs {
		return nil, provider.ErrProviderBadRequest.WithMsgf("Maximum %d food IDs per request", MaxBatchIDs)
	}
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := c.do(ctx, httpclient.NewPostRequest("/foods").WithJSON(batchBody{FdcIDs: fdcIDs}))
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return []FoodNutrition{}, nil
	}

	var raw []apiFood
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.ErrorCtx(ctx, "Error fetching foods", zap.Error(err))
		return nil, provider.ErrProviderFailed.Wrapf(err, "Failed to fetch foods: %v", err)
	}
	out := make([]FoodNutrition, 0, len(raw))
	for _, f := range raw {
		out = append(out, toNutrition(f))
	}
	return out, nil
}

func (c *Client) checkQuota(ctx context.Context) error {
	if c.counter == nil {
		return nil
	}
	key := QuotaKey(c.now())
	d, err := c.counter.IncrementAndCheck(ctx, key, c.config.HourlyLimit, quotaWindow)
	if err != nil {
		c.logger.ErrorCtx(ctx, "USDA quota check failed", zap.Error(err))
		return nil
	}
	if !d.Allowed {
		c.logger.WarnCtx(ctx, "USDA hourly quota exhausted",
			zap.Int64("count", d.Count), zap.Int("limit", c.config.HourlyLimit))
		return provider.ErrProviderRateLimited.WithMsgf(
			"USDA API rate limit exceeded. Limit: %d requests/hour", c.config.HourlyLimit)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *httpclient.Request) ([]byte, error) {
	if err := c.checkQuota(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorCtx(ctx, "USDA API request failed", zap.String("path", req.URL), zap.Error(err))
		return nil, provider.ErrProviderUnreachable.Wrapf(err, "Failed to connect to USDA API: %v", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, provider.ErrProviderUnauthorized.WithMsg("Invalid USDA API key")
	case http.StatusForbidden:
		return nil, provider.ErrProviderForbidden.WithMsg("USDA API access forbidden. Check your API key.")
	case http.StatusTooManyRequests:
		return nil, provider.ErrProviderRateLimited.WithMsg("USDA API rate limit exceeded. Limit: 1,000 requests/hour")
	}
	if !resp.IsSuccess() {
		c.logger.ErrorCtx(ctx, "USDA API request failed",
			zap.String("path", req.URL), zap.Int("status", resp.StatusCode))
		return nil, provider.ErrProviderUnreachable.WithMsgf("Failed to connect to USDA API: %s", resp.Status)
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return []byte("{}"), nil
	}
	return resp.Body, nil
}
