package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokenManager(t *testing.T) *jwt.TokenManager {
	t.Helper()
	tm, err := jwt.NewTokenManager(jwt.Config{Secret: "middleware-test-secret"}, nil, logger.Nop())
	require.NoError(t, err)
	return tm
}

type request struct {
	method  string
	path    string
	headers map[string]string
}

func serve(engine *gin.Engine, r request) *httptest.ResponseRecorder {
	method := r.method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, r.path, nil)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
