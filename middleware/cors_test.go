package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(CORSWithConfig(DefaultCORSConfig([]string{"http://localhost:3000"})))
	engine.GET("/api/v1/meals/history", okHandler)
	return engine
}

func TestCORS_Preflight(t *testing.T) {
	w := serve(newCORSEngine(), request{
		method: http.MethodOptions,
		path:   "/api/v1/meals/history",
		headers: map[string]string{
			"Origin":                         "http://localhost:3000",
			"Access-Control-Request-Method":  "PUT",
			"Access-Control-Request-Headers": "Authorization, Content-Type",
		},
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "PUT", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization, Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_ExposesRateLimitHeaders(t *testing.T) {
	w := serve(newCORSEngine(), request{
		path:    "/api/v1/meals/history",
		headers: map[string]string{"Origin": "http://localhost:3000"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	w := serve(newCORSEngine(), request{
		path:    "/api/v1/meals/history",
		headers: map[string]string{"Origin": "https://evil.example"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	engine := gin.New()
	engine.Use(CORSWithConfig(CORSConfig{AllowOrigins: []string{"*"}}))
	engine.GET("/x", okHandler)

	w := serve(engine, request{path: "/x", headers: map[string]string{"Origin": "https://any.example"}})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
