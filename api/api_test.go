package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/catalog"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/middleware"
	"github.com/snacktrack/snacktrack-api/provider"
	"github.com/snacktrack/snacktrack-api/provider/spoonacular"
	"github.com/snacktrack/snacktrack-api/provider/usda"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)

type fakeFoods struct {
	configured bool
	foods      map[int]usda.FoodNutrition
	err        error

	mu        sync.Mutex
	lastQuery usda.SearchQuery
	batches   [][]int
}

func (f *fakeFoods) Configured() bool { return f.configured }

func (f *fakeFoods) SearchFoods(_ context.Context, q usda.SearchQuery) (usda.SearchResult, error) {
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.err != nil {
		return usda.SearchResult{}, f.err
	}
	return usda.SearchResult{
		Foods:       []usda.FoodItem{{FdcID: 1, Name: q.Query}},
		TotalHits:   1,
		CurrentPage: q.PageNumber,
		TotalPages:  1,
	}, nil
}

func (f *fakeFoods) GetFood(_ context.Context, fdcID int) (usda.FoodNutrition, error) {
	if f.err != nil {
		return usda.FoodNutrition{}, f.err
	}
	food, ok := f.foods[fdcID]
	if !ok {
		return usda.FoodNutrition{}, provider.ErrProviderNotFound.WithMsgf("Food with FDC ID %d not found", fdcID)
	}
	return food, nil
}

func (f *fakeFoods) GetFoods(_ context.Context, fdcIDs []int) ([]usda.FoodNutrition, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]int(nil), fdcIDs...))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []usda.FoodNutrition{}
	for _, id := range fdcIDs {
		if food, ok := f.foods[id]; ok {
			out = append(out, food)
		}
	}
	return out, nil
}

type fakeRecipes struct {
	configured bool
	recipes    []catalog.Recipe
	err        error
	lastQuery  spoonacular.RecipeQuery
}

func (f *fakeRecipes) Configured() bool { return f.configured }

func (f *fakeRecipes) SearchRecipes(_ context.Context, q spoonacular.RecipeQuery) ([]catalog.Recipe, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.recipes, nil
}

func (f *fakeRecipes) GetRecipe(_ context.Context, id int) (catalog.Recipe, error) {
	if f.err != nil {
		return catalog.Recipe{}, f.err
	}
	for _, r := range f.recipes {
		if r.ID == strconv.Itoa(id) {
			return r, nil
		}
	}
	return catalog.Recipe{}, provider.ErrProviderNotFound.WithMsgf("Recipe %d not found", id)
}

func (f *fakeRecipes) Alternatives(_ context.Context, id, limit int) ([]catalog.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return catalog.Page(f.recipes, 0, limit), nil
}

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	store := jwt.NewFallbackTokenStore(jwt.BlacklistConfig{}, nil, logger.Nop())
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := jwt.NewTokenManager(jwt.Config{
		Secret:    "api-test-secret",
		Blacklist: jwt.BlacklistConfig{Enabled: true},
	}, store, logger.Nop())
	require.NoError(t, err)

	svc := auth.NewService(auth.NewUserStore(), auth.NewPasswordService(bcrypt.MinCost), tokens, logger.Nop())
	require.NoError(t, svc.Seed(context.Background()))
	return svc
}

func newDeps(t *testing.T) Deps {
	return Deps{
		Auth:    newAuthService(t),
		Foods:   &fakeFoods{},
		Recipes: &fakeRecipes{},
		Logger:  logger.Nop(),
		Now:     func() time.Time { return fixedNow },
	}
}

func newEngine(d Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Authenticate(d.Auth.Tokens()))
	Register(engine, d)
	return engine
}

func do(engine http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}
