package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/provider"
	"github.com/snacktrack/snacktrack-api/provider/usda"
)

var (
	errFoodSearchUnavailable = provider.ErrProviderNotConfigured.WithMsg(
		"USDA API key not configured. Food search is not available.")
	errFoodLookupUnavailable = provider.ErrProviderNotConfigured.WithMsg(
		"USDA API key not configured. Food nutrition lookup is not available.")
)

// FoodSearchQuery is the query string of GET /foods/search.
type FoodSearchQuery struct {
	Query      string `form:"query" json:"query"`
	PageSize   int    `form:"page_size" json:"page_size"`
	PageNumber int    `form:"page_number" json:"page_number"`
	DataType   string `form:"data_type" json:"data_type"`
	BrandOwner string `form:"brand_owner" json:"brand_owner"`
}

func (q FoodSearchQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Query, validation.Required),
		validation.Field(&q.PageSize, validation.Min(1), validation.Max(usda.MaxPageSize)),
		validation.Field(&q.PageNumber, validation.Min(1)),
	)
}

// dataTypes splits the comma-separated data_type filter.
func (q FoodSearchQuery) dataTypes() []string {
	if q.DataType == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(q.DataType, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type FoodPath struct {
	FdcID int `uri:"fdc_id" binding:"required"`
}

// FoodHandler serves /foods from the USDA FoodData Central client.
type FoodHandler struct {
	foods FoodProvider
}

func NewFoodHandler(foods FoodProvider) *FoodHandler {
	return &FoodHandler{foods: foods}
}

func (h *FoodHandler) Register(rg gin.IRouter) {
	rg.GET("/search", httpx.Wrap(h.search))
	rg.POST("/batch", h.batch)
	rg.GET("/:fdc_id", httpx.Wrap(h.get))
}

func (h *FoodHandler) configured() bool {
	return h.foods != nil && h.foods.Configured()
}

func (h *FoodHandler) search(c *gin.Context, q *FoodSearchQuery) (*usda.SearchResult, error) {
	if !h.configured() {
		return nil, errFoodSearchUnavailable
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	res, err := h.foods.SearchFoods(c.Request.Context(), usda.SearchQuery{
		Query:      q.Query,
		PageSize:   pageSize,
		PageNumber: max(q.PageNumber, 1),
		DataTypes:  q.dataTypes(),
		BrandOwner: q.BrandOwner,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *FoodHandler) get(c *gin.Context, p *FoodPath) (*usda.FoodNutrition, error) {
	if !h.configured() {
		return nil, errFoodLookupUnavailable
	}
	food, err := h.foods.GetFood(c.Request.Context(), p.FdcID)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// batch takes a bare JSON list of FDC ids.
func (h *FoodHandler) batch(c *gin.Context) {
	var ids []int
	if err := httpx.BindJSON(c, &ids); err != nil {
		httpx.HandleError(c, err)
		return
	}
	if !h.configured() {
		httpx.HandleError(c, errFoodLookupUnavailable)
		return
	}
	if len(ids) > usda.MaxBatchIDs {
		httpx.HandleError(c, httpx.ErrTooManyIDs.WithMsgf("Maximum %d food IDs per request", usda.MaxBatchIDs))
		return
	}
	foods, err := h.foods.GetFoods(c.Request.Context(), ids)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}
	httpx.OK(c, foods)
}
