package api

import (
	"net/http"
	"testing"

	"github.com/snacktrack/snacktrack-api/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileBody = `{"age":30,"weight":70,"gender":"female","activity_level":"moderate","goal":"weight_loss","region":"Southern Europe"`

func TestProfiles_Create(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodPost, "/api/v1/profiles", profileBody+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode[Profile](t, w)
	assert.Equal(t, DemoProfileID, p.ID)
	assert.Equal(t, []string{}, p.Allergies)
	assert.Nil(t, p.BMR)
	assert.NotContains(t, w.Body.String(), "bmr")

	w = do(engine, http.MethodPost, "/api/v1/profiles/", profileBody+`,"height":165}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p = decode[Profile](t, w)
	require.NotNil(t, p.BMR)
	require.NotNil(t, p.TDEE)
	assert.Equal(t, 1420, *p.BMR)
	assert.Equal(t, 2201, *p.TDEE)
}

func TestProfiles_CreateValidation(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodPost, "/api/v1/profiles", `{"age":130,"weight":70,"height":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decode[errorBody](t, w).Fields
	for _, f := range []string{"age", "height", "gender", "activity_level", "goal", "region"} {
		assert.Contains(t, fields, f)
	}
	assert.NotContains(t, fields, "weight")
}

func TestProfiles_ListAndEnergy(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodGet, "/api/v1/profiles", "")
	require.Equal(t, http.StatusOK, w.Code)
	profiles := decode[[]Profile](t, w)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Southern Europe", profiles[0].Region)

	w = do(engine, http.MethodPost, "/api/v1/profiles/energy",
		`{"age":30,"weight":70,"height":165,"gender":"female","activity_level":"moderate","goal":"weight_loss"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, nutrition.EnergyEstimate{
		BMR:                1420,
		TDEE:               2201,
		ActivityMultiplier: 1.55,
		DailyTarget:        1701,
		Goal:               "weight_loss",
	}, decode[nutrition.EnergyEstimate](t, w))

	w = do(engine, http.MethodPost, "/api/v1/profiles/energy",
		`{"age":30,"weight":70,"height":165,"gender":"female","activity_level":"couch"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "activity_level")
}

func TestRecommendations(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodPost, "/api/v1/recommendations/meal-plan",
		`{"profile_id":"p1","target_date":"2024-05-01","meals_per_day":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	plan := decode[nutrition.MealPlan](t, w)
	assert.Equal(t, "p1", plan.ProfileID)
	require.Len(t, plan.Plan, nutrition.PlanDays)
	assert.Equal(t, "2024-05-03", plan.Plan[2].Day)
	assert.Len(t, plan.Plan[0].Meals, 2)
	assert.Equal(t, 420*2*nutrition.PlanDays, plan.TotalCalories)

	w = do(engine, http.MethodPost, "/api/v1/recommendations/meal-plan",
		`{"profile_id":"p1","target_date":"05/01/2024"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodGet, "/api/v1/recommendations/sample", "")
	require.Equal(t, http.StatusOK, w.Code)
	plan = decode[nutrition.MealPlan](t, w)
	assert.Equal(t, DemoProfileID, plan.ProfileID)
	assert.Equal(t, "2024-05-01", plan.Plan[0].Day)
}

func TestProgress(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodGet, "/api/v1/progress/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 72.5, decode[ProgressSummary](t, w).CurrentWeight, 0.001)

	w = do(engine, http.MethodGet, "/api/v1/progress/weight-history", "")
	history := decode[[]WeightEntry](t, w)
	require.Len(t, history, 8)
	assert.Equal(t, "2024-03-13", history[0].Date)
	assert.Equal(t, "2024-05-01", history[7].Date)

	w = do(engine, http.MethodGet, "/api/v1/progress/weight-history?weeks=3", "")
	history = decode[[]WeightEntry](t, w)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-04-17", history[0].Date)

	w = do(engine, http.MethodGet, "/api/v1/progress/weight-history?weeks=53", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodPost, "/api/v1/progress/weight?weight=71.2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, WeightLogResponse{Date: "2024-05-01", Weight: 71.2, Message: "Weight logged successfully"},
		decode[WeightLogResponse](t, w))

	w = do(engine, http.MethodPost, "/api/v1/progress/weight?weight=500", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = do(engine, http.MethodPost, "/api/v1/progress/weight", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodGet, "/api/v1/progress/weekly-stats?weeks=2", "")
	stats := decode[[]WeeklyStats](t, w)
	require.Len(t, stats, 2)
	assert.Nil(t, stats[0].WeightChange)
	require.NotNil(t, stats[1].WeightChange)
	assert.Equal(t, "W2", stats[1].Week)

	w = do(engine, http.MethodGet, "/api/v1/progress/achievements", "")
	achievements := decode[[]Achievement](t, w)
	require.Len(t, achievements, 6)
	require.NotNil(t, achievements[0].UnlockedAt)
	assert.True(t, fixedNow.AddDate(0, 0, -100).Equal(*achievements[0].UnlockedAt))
	assert.Nil(t, achievements[4].UnlockedAt)
	assert.Equal(t, 18, *achievements[4].Progress)

	w = do(engine, http.MethodGet, "/api/v1/progress/streaks", "")
	streaks := decode[StreakInfo](t, w)
	assert.Equal(t, 18, streaks.CurrentStreak)
	assert.Nil(t, streaks.StreakHistory[1].EndDate)
}

func TestLeaderboard(t *testing.T) {
	engine := newEngine(newDeps(t))

	for _, path := range []string{"/api/v1/leaderboard", "/api/v1/leaderboard/"} {
		w := do(engine, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		resp := decode[LeaderboardResponse](t, w)
		assert.Equal(t, "month", resp.Period)
		assert.Len(t, resp.Entries, 10)
		require.NotNil(t, resp.UserRank)
		assert.Equal(t, 4, resp.UserRank.Rank)
		assert.Equal(t, 1247, resp.TotalParticipants)
	}

	w := do(engine, http.MethodGet, "/api/v1/leaderboard?period=week&limit=3&user_id=user_2", "")
	resp := decode[LeaderboardResponse](t, w)
	assert.Equal(t, "week", resp.Period)
	assert.Len(t, resp.Entries, 3)
	assert.Equal(t, 2, resp.UserRank.Rank)

	w = do(engine, http.MethodGet, "/api/v1/leaderboard?user_id=nobody", "")
	assert.Nil(t, decode[LeaderboardResponse](t, w).UserRank)

	w = do(engine, http.MethodGet, "/api/v1/leaderboard?limit=101", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodGet, "/api/v1/leaderboard/friends", "")
	friends := decode[LeaderboardResponse](t, w)
	assert.Equal(t, "friends", friends.Period)
	assert.Equal(t, 3, friends.TotalParticipants)

	w = do(engine, http.MethodGet, "/api/v1/leaderboard/points-system", "")
	assert.Len(t, decode[[]PointsBreakdown](t, w), 6)

	w = do(engine, http.MethodPost, "/api/v1/leaderboard/invite?email=pal@example.com", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	invite := decode[InviteResponse](t, w)
	assert.Equal(t, "Invitation sent to pal@example.com", invite.Message)
	assert.Equal(t, 50, invite.BonusPoints)

	w = do(engine, http.MethodPost, "/api/v1/leaderboard/invite?email=nope", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdmin_UsersAndRecipes(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodGet, "/api/v1/admin/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12847, decode[AdminStats](t, w).TotalUsers)

	w = do(engine, http.MethodGet, "/api/v1/admin/users?status=inactive", "")
	users := decode[[]UserSummary](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "user_4", users[0].ID)

	w = do(engine, http.MethodGet, "/api/v1/admin/users?limit=2&offset=1", "")
	users = decode[[]UserSummary](t, w)
	require.Len(t, users, 2)
	assert.Equal(t, "user_2", users[0].ID)

	w = do(engine, http.MethodGet, "/api/v1/admin/users/user_9", "")
	assert.Equal(t, "user_9", decode[UserDetails](t, w).ID)

	w = do(engine, http.MethodPut, "/api/v1/admin/users/user_1/status?status=suspended", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "suspended", decode[UserStatusResponse](t, w).Status)

	w = do(engine, http.MethodPut, "/api/v1/admin/users/user_1/status?status=banished", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decode[errorBody](t, w).Detail)

	w = do(engine, http.MethodGet, "/api/v1/admin/recipes", "")
	recipes := decode[[]RecipeSummary](t, w)
	require.Len(t, recipes, 5)
	assert.Equal(t, 1234, recipes[0].Views)

	w = do(engine, http.MethodGet, "/api/v1/admin/recipes?status=draft", "")
	recipes = decode[[]RecipeSummary](t, w)
	require.Len(t, recipes, 1)
	assert.Equal(t, "recipe_4", recipes[0].ID)

	w = do(engine, http.MethodGet, "/api/v1/admin/recipes?status=archived", "")
	assert.Equal(t, "[]", w.Body.String())

	w = do(engine, http.MethodPut, "/api/v1/admin/recipes/recipe_4/status?status=published", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recipe_4", decode[RecipeStatusResponse](t, w).RecipeID)

	w = do(engine, http.MethodPut, "/api/v1/admin/recipes/recipe_4/status?status=deleted", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_TagsAndUsage(t *testing.T) {
	engine := newEngine(newDeps(t))

	w := do(engine, http.MethodGet, "/api/v1/admin/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]TagCategory](t, w), 5)

	w = do(engine, http.MethodPost, "/api/v1/admin/tags/cuisines?tag=Peruvian", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, TagResponse{Category: "cuisines", Tag: "Peruvian", Message: "Tag added successfully"},
		decode[TagResponse](t, w))

	w = do(engine, http.MethodPost, "/api/v1/admin/tags/cuisines", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodDelete, "/api/v1/admin/tags/cuisines/Thai", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tag deleted successfully", decode[TagResponse](t, w).Message)

	w = do(engine, http.MethodGet, "/api/v1/admin/reports/usage?start_date=2024-04-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[UsageReport](t, w)
	require.NotNil(t, report.Period["start"])
	assert.Equal(t, "2024-04-01", *report.Period["start"])
	assert.Nil(t, report.Period["end"])
	assert.Len(t, report.Metrics.DailyActiveUsers, 7)

	w = do(engine, http.MethodGet, "/api/v1/admin/reports/usage?end_date=2024-13-40", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
