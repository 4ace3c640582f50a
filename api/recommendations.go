package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/nutrition"
)

type RecommendationHandler struct {
	planner *nutrition.Planner
	now     func() time.Time
}

func NewRecommendationHandler(planner *nutrition.Planner, now func() time.Time) *RecommendationHandler {
	return &RecommendationHandler{planner: planner, now: now}
}

func (h *RecommendationHandler) Register(rg gin.IRouter) {
	rg.POST("/meal-plan", httpx.Wrap(h.mealPlan))
	rg.GET("/sample", httpx.Wrap(h.sample))
}

func (h *RecommendationHandler) mealPlan(_ *gin.Context, req *nutrition.PlanRequest) (*nutrition.MealPlan, error) {
	plan, err := h.planner.Generate(*req)
	if err != nil {
		return nil, httpx.ErrInvalidDate.Wrap(err)
	}
	return &plan, nil
}

func (h *RecommendationHandler) sample(_ *gin.Context, _ *Empty) (*nutrition.MealPlan, error) {
	plan := h.planner.Sample(h.now())
	return &plan, nil
}
