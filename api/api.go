// Package api mounts the /api/v1 route groups.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/catalog"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/middleware"
	"github.com/snacktrack/snacktrack-api/nutrition"
	"github.com/snacktrack/snacktrack-api/provider/spoonacular"
	"github.com/snacktrack/snacktrack-api/provider/usda"
)

// Prefix is where every route group is mounted.
const Prefix = "/api/v1"

// DemoProfileID is the user the sample routes answer for when none is given.
const DemoProfileID = "demo-user"

// FoodProvider is the nutrition database used by the food and meal routes.
type FoodProvider interface {
	Configured() bool
	SearchFoods(ctx context.Context, q usda.SearchQuery) (usda.SearchResult, error)
	GetFood(ctx context.Context, fdcID int) (usda.FoodNutrition, error)
	GetFoods(ctx context.Context, fdcIDs []int) ([]usda.FoodNutrition, error)
}

// RecipeProvider is the remote recipe source used by the recipe routes.
type RecipeProvider interface {
	Configured() bool
	SearchRecipes(ctx context.Context, q spoonacular.RecipeQuery) ([]catalog.Recipe, error)
	GetRecipe(ctx context.Context, id int) (catalog.Recipe, error)
	Alternatives(ctx context.Context, id, limit int) ([]catalog.Recipe, error)
}

// Deps are the services the handlers need.
type Deps struct {
	Auth    *auth.Service
	Foods   FoodProvider
	Recipes RecipeProvider
	Planner *nutrition.Planner
	// Pool runs the USDA batch lookups of log-batch. Nil runs them inline.
	Pool   *ants.Pool
	Logger *logger.CtxZapLogger
	Now    func() time.Time
}

func (d *Deps) applyDefaults() {
	if d.Planner == nil {
		d.Planner = nutrition.NewPlanner()
	}
	if d.Logger == nil {
		d.Logger = logger.GetLogger("api")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Router registers one route group.
type Router interface {
	Register(rg gin.IRouter)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(rg gin.IRouter)

func (f RouterFunc) Register(rg gin.IRouter) {
	f(rg)
}

// Register mounts every route group under Prefix.
func Register(engine gin.IRouter, d Deps) {
	d.applyDefaults()
	v1 := engine.Group(Prefix)

	groups := []struct {
		path   string
		router Router
	}{
		{"/auth", NewAuthHandler(d.Auth)},
		{"/profiles", NewProfileHandler()},
		{"/recipes", NewRecipeHandler(d.Recipes, d.Logger)},
		{"/recommendations", NewRecommendationHandler(d.Planner, d.Now)},
		{"/foods", NewFoodHandler(d.Foods)},
		{"/meals", NewMealHandler(d.Foods, d.Pool, d.Logger, d.Now)},
		{"/progress", NewProgressHandler(d.Now)},
		{"/leaderboard", RouterFunc(registerLeaderboard)},
		{"/admin", NewAdminHandler(d.Now)},
	}
	for _, g := range groups {
		g.router.Register(v1.Group(g.path))
	}
}

// root registers h for both the bare group path and its trailing-slash form.
func root(rg gin.IRouter, method string, h gin.HandlerFunc) {
	rg.Handle(method, "", h)
	rg.Handle(method, "/", h)
}

// userIDOr picks the explicit user id, then the authenticated user, then the demo user.
func userIDOr(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if id, ok := middleware.UserID(c); ok {
		return id
	}
	return DemoProfileID
}

// Empty is the request type of handlers that take no input.
type Empty struct{}
