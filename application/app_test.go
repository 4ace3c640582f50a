package application

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func getStatus(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}

func httpServer(t *testing.T, app *Application) *HTTPServer {
	t.Helper()
	return do.MustInvoke[*HTTPServer](app.Injector())
}

func TestApplication_Lifecycle(t *testing.T) {
	app := New(testSettings(t))
	assert.Equal(t, StateInit, app.GetState())
	assert.Zero(t, app.Uptime())

	require.NoError(t, app.RunNonBlocking())
	assert.Equal(t, StateRunning, app.GetState())

	addr := "http://" + httpServer(t, app).Addr()

	status, body := getJSON(t, addr+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "in-memory", body["rate_limiting"])

	assert.Equal(t, http.StatusOK, getStatus(t, addr+"/api/v1/recipes/featured"))

	app.Shutdown()
	assert.Equal(t, StateStopped, app.GetState())
	select {
	case <-app.Context().Done():
	default:
		t.Fatal("context not cancelled")
	}

	client := http.Client{Timeout: time.Second}
	_, err := client.Get(addr + "/health")
	assert.Error(t, err, "server no longer accepts connections")
}

func TestApplication_DistributedRateLimiting(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	s := testSettings(t)
	s.Redis.Enabled = true
	s.Redis.Host = mr.Host()
	s.Redis.Port = port
	s.Redis.MinIdleConns = 0

	app := New(s)
	require.NoError(t, app.RunNonBlocking())
	defer app.Shutdown()

	addr := "http://" + httpServer(t, app).Addr()
	status, body := getJSON(t, addr+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, "redis", body["rate_limiting"])

	assert.Equal(t, http.StatusOK, getStatus(t, addr+"/api/v1/recipes/featured"))
	assert.NotEmpty(t, mr.Keys(), "window counted in redis")
}

func TestApplication_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := testSettings(t)
	s.Server.Port = ln.Addr().(*net.TCPAddr).Port

	app := New(s)
	err = app.RunNonBlocking()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	app.Shutdown()
}

func TestAppState_String(t *testing.T) {
	assert.Equal(t, "Running", StateRunning.String())
	assert.Equal(t, "Unknown", AppState(42).String())
}
