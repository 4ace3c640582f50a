package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/httpx/types"
)

type ProgressSummary struct {
	CurrentWeight    float64 `json:"current_weight"`
	StartingWeight   float64 `json:"starting_weight"`
	TargetWeight     float64 `json:"target_weight"`
	WeightChange     float64 `json:"weight_change"`
	ProgressToGoal   float64 `json:"progress_to_goal"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	TotalDaysTracked int     `json:"total_days_tracked"`
	AvgDailyCalories int     `json:"avg_daily_calories"`
	AvgAdherence     float64 `json:"avg_adherence"`
}

type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type WeeklyStats struct {
	Week         string   `json:"week"`
	AvgCalories  int      `json:"avg_calories"`
	AvgProtein   float64  `json:"avg_protein"`
	Adherence    float64  `json:"adherence"`
	WeightChange *float64 `json:"weight_change"`
}

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
	Progress    *int       `json:"progress"`
	Target      *int       `json:"target"`
}

type Streak struct {
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Length    int     `json:"length"`
}

type StreakInfo struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	StreakHistory []Streak `json:"streak_history"`
}

type WeeksQuery struct {
	UserID string `form:"user_id" json:"user_id"`
	Weeks  int    `form:"weeks" json:"weeks"`
}

func (q WeeksQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Weeks, validation.Min(1), validation.Max(52)),
	)
}

func (q WeeksQuery) weeks() int {
	if q.Weeks == 0 {
		return 8
	}
	return q.Weeks
}

type WeightLogRequest struct {
	Weight *float64 `form:"weight" json:"weight"`
	UserID string   `form:"user_id" json:"user_id"`
}

func (r WeightLogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Weight, validation.NotNil, validation.Min(0.001), validation.Max(499.999)),
	)
}

type WeightLogResponse struct {
	Date    string  `json:"date"`
	Weight  float64 `json:"weight"`
	Message string  `json:"message"`
}

var (
	sampleWeights = []float64{75.0, 74.5, 74.2, 73.8, 73.5, 73.2, 72.8, 72.5}
	sampleWeeks   = []struct {
		calories  int
		protein   float64
		adherence float64
	}{
		{1850, 95, 85}, {1920, 98, 90}, {1780, 88, 78}, {1900, 96, 92},
		{1880, 94, 88}, {1950, 100, 95}, {1820, 92, 91}, {1870, 95, 94},
	}
)

// ProgressHandler serves /progress with sample data.
type ProgressHandler struct {
	now func() time.Time
}

func NewProgressHandler(now func() time.Time) *ProgressHandler {
	return &ProgressHandler{now: now}
}

func (h *ProgressHandler) Register(rg gin.IRouter) {
	rg.GET("/summary", httpx.Wrap(h.summary))
	rg.GET("/weight-history", httpx.Wrap(h.weightHistory))
	rg.POST("/weight", httpx.Wrap(h.logWeight))
	rg.GET("/weekly-stats", httpx.Wrap(h.weeklyStats))
	rg.GET("/achievements", httpx.Wrap(h.achievements))
	rg.GET("/streaks", httpx.Wrap(h.streaks))
}

func (h *ProgressHandler) summary(_ *gin.Context, _ *UserQuery) (*ProgressSummary, error) {
	return &ProgressSummary{
		CurrentWeight:    72.5,
		StartingWeight:   75.0,
		TargetWeight:     70.0,
		WeightChange:     -2.5,
		ProgressToGoal:   50.0,
		CurrentStreak:    18,
		LongestStreak:    45,
		TotalDaysTracked: 128,
		AvgDailyCalories: 1850,
		AvgAdherence:     87.5,
	}, nil
}

// weightHistory returns one weekly entry per sample weight, the last one dated today.
func (h *ProgressHandler) weightHistory(_ *gin.Context, q *WeeksQuery) (*[]WeightEntry, error) {
	weeks := q.weeks()
	today := h.now()
	weights := sampleWeights[:min(weeks, len(sampleWeights))]

	out := make([]WeightEntry, 0, len(weights))
	for i, w := range weights {
		out = append(out, WeightEntry{
			Date:   today.AddDate(0, 0, -7*(weeks-i-1)).Format(types.DateFormat),
			Weight: w,
		})
	}
	return &out, nil
}

func (h *ProgressHandler) logWeight(_ *gin.Context, req *WeightLogRequest) (*WeightLogResponse, error) {
	return &WeightLogResponse{
		Date:    h.now().Format(types.DateFormat),
		Weight:  *req.Weight,
		Message: "Weight logged successfully",
	}, nil
}

func (h *ProgressHandler) weeklyStats(_ *gin.Context, q *WeeksQuery) (*[]WeeklyStats, error) {
	weeks := sampleWeeks[:min(q.weeks(), len(sampleWeeks))]
	out := make([]WeeklyStats, 0, len(weeks))
	for i, w := range weeks {
		s := WeeklyStats{
			Week:        fmt.Sprintf("W%d", i+1),
			AvgCalories: w.calories,
			AvgProtein:  w.protein,
			Adherence:   w.adherence,
		}
		if i > 0 {
			change := -0.3
			s.WeightChange = &change
		}
		out = append(out, s)
	}
	return &out, nil
}

func (h *ProgressHandler) achievements(_ *gin.Context, _ *UserQuery) (*[]Achievement, error) {
	now := h.now()
	daysAgo := func(n int) *time.Time {
		t := now.AddDate(0, 0, -n)
		return &t
	}
	return &[]Achievement{
		{ID: "first_week", Title: "First Week", Description: "Complete your first week of tracking", Icon: "🌟", UnlockedAt: daysAgo(100)},
		{ID: "7_day_streak", Title: "7-Day Streak", Description: "Maintain a 7-day tracking streak", Icon: "🔥", UnlockedAt: daysAgo(80)},
		{ID: "protein_pro", Title: "Protein Pro", Description: "Hit protein goals 7 days in a row", Icon: "💪", UnlockedAt: daysAgo(50)},
		{ID: "hydration_hero", Title: "Hydration Hero", Description: "Drink 8 glasses of water 5 days straight", Icon: "💧", UnlockedAt: daysAgo(30)},
		{ID: "30_day_streak", Title: "30-Day Streak", Description: "Maintain a 30-day tracking streak", Icon: "🏆", Progress: intPtr(18), Target: intPtr(30)},
		{ID: "recipe_master", Title: "Recipe Master", Description: "Try 20 different recipes", Icon: "👨‍🍳", Progress: intPtr(12), Target: intPtr(20)},
	}, nil
}

func (h *ProgressHandler) streaks(_ *gin.Context, _ *UserQuery) (*StreakInfo, error) {
	end := "2024-11-15"
	return &StreakInfo{
		CurrentStreak: 18,
		LongestStreak: 45,
		StreakHistory: []Streak{
			{StartDate: "2024-10-01", EndDate: &end, Length: 45},
			{StartDate: "2024-12-07", Length: 18},
		},
	}, nil
}

func intPtr(v int) *int { return &v }
