package api

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/panjf2000/ants/v2"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/httpx/types"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider/usda"
	"go.uber.org/zap"
)

type MealLogEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	MealType string  `json:"meal_type"`
	Time     string  `json:"time"`
	RecipeID *string `json:"recipe_id"`
}

type DailyLog struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Date          string         `json:"date"`
	Meals         []MealLogEntry `json:"meals"`
	TotalCalories int            `json:"total_calories"`
	TotalProtein  float64        `json:"total_protein"`
	TotalCarbs    float64        `json:"total_carbs"`
	TotalFat      float64        `json:"total_fat"`
	WaterGlasses  int            `json:"water_glasses"`
	Weight        *float64       `json:"weight"`
	Notes         *string        `json:"notes"`
	Mood          *string        `json:"mood"`
}

// MealLogCreate is one meal to log. A set FdcID pulls nutrition from USDA.
type MealLogCreate struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	MealType string  `json:"meal_type"`
	RecipeID *string `json:"recipe_id"`
	FdcID    *int    `json:"fdc_id"`
}

func (m MealLogCreate) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.MealType, validation.Required),
	)
}

func (m MealLogCreate) fdcID() (int, bool) {
	if m.FdcID == nil || *m.FdcID == 0 {
		return 0, false
	}
	return *m.FdcID, true
}

// MealLogRequest is POST /meals/log.
type MealLogRequest struct {
	MealLogCreate
	UserID string `form:"user_id" json:"-"`
}

type UserQuery struct {
	UserID string `form:"user_id" json:"user_id"`
}

type DailyLogPath struct {
	Date   string `uri:"date"`
	UserID string `form:"user_id" json:"user_id"`
}

// WaterUpdateRequest is PUT /meals/water/:date.
type WaterUpdateRequest struct {
	Date    string `uri:"date" json:"-"`
	Glasses *int   `json:"glasses"`
}

func (r WaterUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Glasses, validation.NotNil, validation.Min(0), validation.Max(20)),
	)
}

type WaterUpdateResponse struct {
	Date         string `json:"date"`
	WaterGlasses int    `json:"water_glasses"`
	Message      string `json:"message"`
}

type HistoryQuery struct {
	UserID string `form:"user_id" json:"user_id"`
	Days   int    `form:"days" json:"days"`
}

func (q HistoryQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Days, validation.Min(1), validation.Max(90)),
	)
}

type HistorySummary struct {
	AvgCalories   int     `json:"avg_calories"`
	AvgProtein    float64 `json:"avg_protein"`
	AvgCarbs      float64 `json:"avg_carbs"`
	AvgFat        float64 `json:"avg_fat"`
	AdherenceRate float64 `json:"adherence_rate"`
}

type HistoryResponse struct {
	UserID  string         `json:"user_id"`
	Days    int            `json:"days"`
	Summary HistorySummary `json:"summary"`
}

// MealHandler serves /meals. Logged meals are echoed back, not stored.
type MealHandler struct {
	foods  FoodProvider
	pool   *ants.Pool
	logger *logger.CtxZapLogger
	now    func() time.Time
}

func NewMealHandler(foods FoodProvider, pool *ants.Pool, log *logger.CtxZapLogger, now func() time.Time) *MealHandler {
	return &MealHandler{foods: foods, pool: pool, logger: log, now: now}
}

func (h *MealHandler) Register(rg gin.IRouter) {
	rg.GET("/daily/:date", httpx.Wrap(h.daily))
	rg.POST("/log", httpx.Wrap(h.log))
	rg.POST("/log-batch", h.logBatch)
	rg.PUT("/water/:date", httpx.Wrap(h.water))
	rg.GET("/history", httpx.Wrap(h.history))
}

func (h *MealHandler) daily(c *gin.Context, p *DailyLogPath) (*DailyLog, error) {
	if _, ok := types.ParseDate(p.Date); !ok {
		return nil, httpx.ErrInvalidDate
	}
	mood := "good"
	return &DailyLog{
		ID:     "log_" + p.Date,
		UserID: userIDOr(c, p.UserID),
		Date:   p.Date,
		Meals: []MealLogEntry{
			{ID: "meal_1", Name: "Avocado Toast with Eggs", Calories: 380, Protein: 14, Carbs: 32, Fat: 22, MealType: "breakfast", Time: "08:00"},
			{ID: "meal_2", Name: "Grilled Chicken Salad", Calories: 420, Protein: 35, Carbs: 18, Fat: 24, MealType: "lunch", Time: "12:30"},
			{ID: "meal_3", Name: "Greek Yogurt with Berries", Calories: 180, Protein: 12, Carbs: 22, Fat: 4, MealType: "snack", Time: "15:00"},
		},
		TotalCalories: 980,
		TotalProtein:  61,
		TotalCarbs:    72,
		TotalFat:      50,
		WaterGlasses:  5,
		Mood:          &mood,
	}, nil
}

func (h *MealHandler) log(c *gin.Context, req *MealLogRequest) (*MealLogEntry, error) {
	ctx := c.Request.Context()
	now := h.now()

	var food *usda.FoodNutrition
	if id, ok := req.fdcID(); ok && h.lookupEnabled() {
		f, err := h.foods.GetFood(ctx, id)
		if err != nil {
			h.logger.WarnCtx(ctx, "USDA lookup failed, using submitted values",
				zap.Int("fdc_id", id), zap.Error(err))
		} else {
			food = &f
		}
	}

	entry := newEntry(req.MealLogCreate, food, now)
	entry.ID = fmt.Sprintf("meal_%d", now.UnixMicro())
	return &entry, nil
}

// logBatch takes a bare JSON list of meals. USDA ids are fetched in chunks of
// usda.MaxBatchIDs, concurrently on the worker pool.
func (h *MealHandler) logBatch(c *gin.Context) {
	var meals []MealLogCreate
	if err := httpx.BindJSON(c, &meals); err != nil {
		httpx.HandleError(c, err)
		return
	}
	for i := range meals {
		if err := meals[i].Validate(); err != nil {
			httpx.HandleError(c, httpx.ErrValidation.WithMsgf("Invalid meal at index %d: %v", i, err))
			return
		}
	}

	var ids []int
	for _, m := range meals {
		if id, ok := m.fdcID(); ok {
			ids = append(ids, id)
		}
	}
	var foods map[int]usda.FoodNutrition
	if len(ids) > 0 && h.lookupEnabled() {
		foods = h.fetchFoods(c.Request.Context(), ids)
	}

	now := h.now()
	entries := make([]MealLogEntry, 0, len(meals))
	for i, m := range meals {
		var food *usda.FoodNutrition
		if id, ok := m.fdcID(); ok {
			if f, found := foods[id]; found {
				food = &f
			}
		}
		entry := newEntry(m, food, now)
		entry.ID = fmt.Sprintf("meal_%d_%d", now.UnixMicro(), i)
		entries = append(entries, entry)
	}
	httpx.OK(c, entries)
}

func (h *MealHandler) lookupEnabled() bool {
	return h.foods != nil && h.foods.Configured()
}

// fetchFoods looks ids up in chunks. Failed chunks are logged and skipped.
func (h *MealHandler) fetchFoods(ctx context.Context, ids []int) map[int]usda.FoodNutrition {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[int]usda.FoodNutrition, len(ids))
	)
	for start := 0; start < len(ids); start += usda.MaxBatchIDs {
		chunk := ids[start:min(start+usda.MaxBatchIDs, len(ids))]
		task := func() {
			defer wg.Done()
			found, err := h.foods.GetFoods(ctx, chunk)
			if err != nil {
				h.logger.WarnCtx(ctx, "USDA batch lookup failed, using submitted values",
					zap.Int("ids", len(chunk)), zap.Error(err))
				return
			}
			mu.Lock()
			for _, f := range found {
				out[f.FdcID] = f
			}
			mu.Unlock()
		}

		wg.Add(1)
		if h.pool == nil {
			task()
			continue
		}
		if err := h.pool.Submit(task); err != nil {
			h.logger.WarnCtx(ctx, "worker pool rejected lookup, running inline", zap.Error(err))
			task()
		}
	}
	wg.Wait()
	return out
}

// newEntry builds a log entry, preferring non-zero USDA values over submitted ones.
func newEntry(m MealLogCreate, food *usda.FoodNutrition, now time.Time) MealLogEntry {
	entry := MealLogEntry{
		Name:     m.Name,
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fat:      m.Fat,
		MealType: m.MealType,
		Time:     now.Format("15:04"),
		RecipeID: m.RecipeID,
	}
	if food == nil {
		return entry
	}
	if food.Calories != 0 {
		entry.Calories = int(math.Trunc(food.Calories))
	}
	if food.Protein != 0 {
		entry.Protein = food.Protein
	}
	if food.Carbs != 0 {
		entry.Carbs = food.Carbs
	}
	if food.Fat != 0 {
		entry.Fat = food.Fat
	}
	return entry
}

func (h *MealHandler) water(_ *gin.Context, req *WaterUpdateRequest) (*WaterUpdateResponse, error) {
	return &WaterUpdateResponse{
		Date:         req.Date,
		WaterGlasses: *req.Glasses,
		Message:      "Water intake updated",
	}, nil
}

func (h *MealHandler) history(c *gin.Context, q *HistoryQuery) (*HistoryResponse, error) {
	days := q.Days
	if days == 0 {
		days = 7
	}
	return &HistoryResponse{
		UserID: userIDOr(c, q.UserID),
		Days:   days,
		Summary: HistorySummary{
			AvgCalories:   1850,
			AvgProtein:    95,
			AvgCarbs:      180,
			AvgFat:        65,
			AdherenceRate: 87,
		},
	}, nil
}
