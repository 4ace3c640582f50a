package api

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/catalog"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/httpx/types"
)

var (
	userStatuses   = []string{"active", "inactive", "suspended"}
	recipeStatuses = []string{catalog.StatusPublished, catalog.StatusDraft, catalog.StatusArchived}
)

type AdminStats struct {
	TotalUsers         int     `json:"total_users"`
	ActiveUsers        int     `json:"active_users"`
	NewUsersToday      int     `json:"new_users_today"`
	NewUsersWeek       int     `json:"new_users_week"`
	TotalRecipes       int     `json:"total_recipes"`
	PublishedRecipes   int     `json:"published_recipes"`
	MealPlansGenerated int     `json:"meal_plans_generated"`
	AverageAdherence   float64 `json:"average_adherence"`
}

type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joined_at"`
	Status    string    `json:"status"`
	Streak    int       `json:"streak"`
	Adherence float64   `json:"adherence"`
}

type UserDetails struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	JoinedAt time.Time      `json:"joined_at"`
	Status   string         `json:"status"`
	Profile  map[string]any `json:"profile"`
	Stats    map[string]any `json:"stats"`
}

type RecipeSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Cuisine  string  `json:"cuisine"`
	Calories int     `json:"calories"`
	Status   string  `json:"status"`
	Views    int     `json:"views"`
	Rating   float64 `json:"rating"`
}

type TagCategory struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type UserListQuery struct {
	Status string `form:"status" json:"status"`
	types.OffsetQuery
}

func (q UserListQuery) Validate() error {
	return validation.ValidateStruct(&q, q.OffsetQuery.Rules(100)...)
}

type RecipeListQuery struct {
	Status  string `form:"status" json:"status"`
	Cuisine string `form:"cuisine" json:"cuisine"`
	types.OffsetQuery
}

func (q RecipeListQuery) Validate() error {
	return validation.ValidateStruct(&q, q.OffsetQuery.Rules(100)...)
}

type IDPath struct {
	ID string `uri:"id"`
}

type StatusUpdateRequest struct {
	ID     string `uri:"id"`
	Status string `form:"status" json:"status"`
}

type UserStatusResponse struct {
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RecipeStatusResponse struct {
	RecipeID string `json:"recipe_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type TagRequest struct {
	Category string `uri:"category"`
	Tag      string `uri:"tag" form:"tag" json:"tag"`
}

func (r TagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tag, validation.Required),
	)
}

type TagResponse struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Message  string `json:"message"`
}

type UsageReport struct {
	Period  map[string]*string `json:"period"`
	Metrics UsageMetrics       `json:"metrics"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type PopularRecipe struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

type UsageMetrics struct {
	DailyActiveUsers       []DailyCount    `json:"daily_active_users"`
	MealsLoggedPerDay      int             `json:"meals_logged_per_day"`
	RecipesViewedPerDay    int             `json:"recipes_viewed_per_day"`
	AverageSessionDuration string          `json:"average_session_duration"`
	MostPopularRecipes     []PopularRecipe `json:"most_popular_recipes"`
}

var (
	recipeViews = map[string]int{"recipe_1": 1234, "recipe_2": 987, "recipe_3": 2341, "recipe_4": 0, "recipe_5": 756}

	tagCategories = []TagCategory{
		{Category: "cuisines", Tags: []string{"Mediterranean", "Indian", "Thai", "American", "Japanese", "Chinese", "Greek", "Mexican", "Italian", "Korean"}},
		{Category: "diet_types", Tags: []string{"Vegetarian", "Vegan", "Keto", "Gluten-Free", "Low-Calorie", "High-Protein", "Low-Carb", "Paleo"}},
		{Category: "meal_types", Tags: []string{"Breakfast", "Lunch", "Dinner", "Snack", "Dessert", "Beverage"}},
		{Category: "health_conditions", Tags: []string{"Diabetes-Friendly", "Heart-Healthy", "Low-Sodium", "PCOS-Friendly", "Anti-Inflammatory"}},
		{Category: "allergens", Tags: []string{"Nut-Free", "Dairy-Free", "Gluten-Free", "Soy-Free", "Egg-Free", "Shellfish-Free"}},
	}
)

// AdminHandler serves /admin with sample data. Mutations are acknowledged only.
type AdminHandler struct {
	now func() time.Time
}

func NewAdminHandler(now func() time.Time) *AdminHandler {
	return &AdminHandler{now: now}
}

func (h *AdminHandler) Register(rg gin.IRouter) {
	rg.GET("/stats", httpx.Wrap(h.stats))
	rg.GET("/users", httpx.Wrap(h.listUsers))
	rg.GET("/users/:id", httpx.Wrap(h.getUser))
	rg.PUT("/users/:id/status", httpx.Wrap(h.updateUserStatus))
	rg.GET("/recipes", httpx.Wrap(h.listRecipes))
	rg.PUT("/recipes/:id/status", httpx.Wrap(h.updateRecipeStatus))
	rg.GET("/tags", httpx.Wrap(h.tags))
	rg.POST("/tags/:category", httpx.Wrap(h.addTag))
	rg.DELETE("/tags/:category/:tag", httpx.Wrap(h.deleteTag))
	rg.GET("/reports/usage", httpx.Wrap(h.usage))
}

func (h *AdminHandler) stats(_ *gin.Context, _ *Empty) (*AdminStats, error) {
	return &AdminStats{
		TotalUsers:         12847,
		ActiveUsers:        8923,
		NewUsersToday:      47,
		NewUsersWeek:       312,
		TotalRecipes:       456,
		PublishedRecipes:   423,
		MealPlansGenerated: 34521,
		AverageAdherence:   87.5,
	}, nil
}

func (h *AdminHandler) sampleUsers() []UserSummary {
	joined := func(days int) time.Time { return h.now().AddDate(0, 0, -days) }
	return []UserSummary{
		{ID: "user_1", Name: "Emma Wilson", Email: "emma@example.com", JoinedAt: joined(120), Status: "active", Streak: 45, Adherence: 98},
		{ID: "user_2", Name: "James Chen", Email: "james@example.com", JoinedAt: joined(90), Status: "active", Streak: 38, Adherence: 95},
		{ID: "user_3", Name: "Sofia Rodriguez", Email: "sofia@example.com", JoinedAt: joined(60), Status: "active", Streak: 42, Adherence: 92},
		{ID: "user_4", Name: "Alex Thompson", Email: "alex@example.com", JoinedAt: joined(30), Status: "inactive", Streak: 0, Adherence: 75},
		{ID: "user_5", Name: "Priya Patel", Email: "priya@example.com", JoinedAt: joined(15), Status: "active", Streak: 15, Adherence: 88},
	}
}

func (h *AdminHandler) listUsers(_ *gin.Context, q *UserListQuery) (*[]UserSummary, error) {
	users := h.sampleUsers()
	if q.Status != "" {
		users = slices.DeleteFunc(users, func(u UserSummary) bool { return u.Status != q.Status })
	}
	out := catalog.Page(users, q.Offset, q.LimitOr(20))
	return &out, nil
}

func (h *AdminHandler) getUser(_ *gin.Context, p *IDPath) (*UserDetails, error) {
	return &UserDetails{
		ID:       p.ID,
		Name:     "Demo User",
		Email:    "demo@example.com",
		JoinedAt: h.now().AddDate(0, 0, -100),
		Status:   "active",
		Profile: map[string]any{
			"age":       30,
			"weight":    72.5,
			"goal":      "weight_loss",
			"diet_type": "vegetarian",
		},
		Stats: map[string]any{
			"current_streak":     18,
			"longest_streak":     45,
			"total_days_tracked": 128,
			"average_adherence":  87.5,
		},
	}, nil
}

func (h *AdminHandler) updateUserStatus(_ *gin.Context, req *StatusUpdateRequest) (*UserStatusResponse, error) {
	if !slices.Contains(userStatuses, req.Status) {
		return nil, httpx.ErrInvalidStatus
	}
	return &UserStatusResponse{UserID: req.ID, Status: req.Status, Message: "Status updated successfully"}, nil
}

// listRecipes summarizes the sample catalog, drafts included.
func (h *AdminHandler) listRecipes(_ *gin.Context, q *RecipeListQuery) (*[]RecipeSummary, error) {
	var out []RecipeSummary
	for _, r := range catalog.All() {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.Cuisine != "" && !strings.EqualFold(r.Cuisine, q.Cuisine) {
			continue
		}
		out = append(out, RecipeSummary{
			ID:       r.ID,
			Title:    r.Title,
			Cuisine:  r.Cuisine,
			Calories: r.Nutrition.Calories,
			Status:   r.Status,
			Views:    recipeViews[r.ID],
			Rating:   r.Rating,
		})
	}
	out = catalog.Page(out, q.Offset, q.LimitOr(20))
	return &out, nil
}

func (h *AdminHandler) updateRecipeStatus(_ *gin.Context, req *StatusUpdateRequest) (*RecipeStatusResponse, error) {
	if !slices.Contains(recipeStatuses, req.Status) {
		return nil, httpx.ErrInvalidStatus
	}
	return &RecipeStatusResponse{RecipeID: req.ID, Status: req.Status, Message: "Recipe status updated"}, nil
}

func (h *AdminHandler) tags(_ *gin.Context, _ *Empty) (*[]TagCategory, error) {
	return &tagCategories, nil
}

func (h *AdminHandler) addTag(_ *gin.Context, req *TagRequest) (*TagResponse, error) {
	return &TagResponse{Category: req.Category, Tag: req.Tag, Message: "Tag added successfully"}, nil
}

func (h *AdminHandler) deleteTag(_ *gin.Context, req *TagRequest) (*TagResponse, error) {
	return &TagResponse{Category: req.Category, Tag: req.Tag, Message: "Tag deleted successfully"}, nil
}

func (h *AdminHandler) usage(_ *gin.Context, q *types.DateRange) (*UsageReport, error) {
	return &UsageReport{
		Period: map[string]*string{"start": optionalString(q.StartDate), "end": optionalString(q.EndDate)},
		Metrics: UsageMetrics{
			DailyActiveUsers: []DailyCount{
				{Date: "2024-12-19", Count: 8234},
				{Date: "2024-12-20", Count: 8456},
				{Date: "2024-12-21", Count: 7823},
				{Date: "2024-12-22", Count: 8901},
				{Date: "2024-12-23", Count: 9123},
				{Date: "2024-12-24", Count: 8654},
				{Date: "2024-12-25", Count: 8923},
			},
			MealsLoggedPerDay:      24567,
			RecipesViewedPerDay:    45678,
			AverageSessionDuration: "12m 34s",
			MostPopularRecipes: []PopularRecipe{
				{ID: "recipe_3", Title: "Chicken Tikka Masala", Views: 2341},
				{ID: "recipe_1", Title: "Mediterranean Quinoa Bowl", Views: 1234},
				{ID: "recipe_2", Title: "Grilled Salmon", Views: 987},
			},
		},
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
