package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Disabled(t *testing.T) {
	m := NewManager(Config{}, logger.Nop())
	require.NoError(t, m.Start(context.Background()))

	assert.False(t, m.IsEnabled())
	assert.Nil(t, m.tracerProvider)
	assert.Nil(t, m.Middleware())
	assert.NotNil(t, m.Tracer("x"))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_StdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(Config{
		Enabled:     true,
		ServiceName: "snacktrack-test",
		Sampler:     SamplerConfig{Type: "always_on"},
		Batch:       BatchConfig{Enabled: false},
	}, logger.Nop())
	m.writer = &buf
	require.NoError(t, m.Start(context.Background()))

	_, span := m.Tracer("test").Start(context.Background(), "unit-of-work")
	span.End()
	require.NoError(t, m.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "unit-of-work")
	assert.Contains(t, buf.String(), "snacktrack-test")
}

func TestManager_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	m := NewManager(Config{
		Enabled:     true,
		ServiceName: "snacktrack-test",
		Sampler:     SamplerConfig{Type: "always_on"},
	}, logger.Nop())
	m.writer = &buf
	require.NoError(t, m.Start(context.Background()))

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "/ping")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{}.Validate(), "disabled config is always valid")

	cfg := DefaultConfig()
	cfg.Enabled = true
	assert.NoError(t, cfg.Validate())

	cfg.Exporter.Type = "otlp"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Enabled = true
	cfg.Sampler = SamplerConfig{Type: "trace_id_ratio", Ratio: 2}
	assert.Error(t, cfg.Validate())
}

func TestFlattenAttrs(t *testing.T) {
	got := make(map[string]string)
	flattenInto(got, "", map[string]any{
		"deployment": map[string]any{"environment": "test"},
		"replicas":   3,
	})
	assert.Equal(t, map[string]string{"deployment.environment": "test", "replicas": "3"}, got)
}
