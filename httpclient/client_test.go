package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_BaseURLQueryAndHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL+"/fdc/v1/"),
		WithQuery("api_key", "k"),
		WithHeader("Accept", "application/json"),
	)
	resp, err := c.Do(context.Background(), NewGetRequest("/food/123").WithQuery("format", "full"))
	require.NoError(t, err)

	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "/fdc/v1/food/123", got.URL.Path)
	assert.Equal(t, "k", got.URL.Query().Get("api_key"))
	assert.Equal(t, "full", got.URL.Query().Get("format"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))

	var body map[string]bool
	require.NoError(t, resp.JSON(&body))
	assert.True(t, body["ok"])
}

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	resp, err := NewClient(WithBaseURL(srv.URL)).PostJSON(context.Background(), "/foods", map[string]any{"fdcIds": []int{1, 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fdcIds":[1,2]}`, resp.String())
}

func TestClient_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	resp, err := NewClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.True(t, resp.IsClientError())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewClient(WithTimeout(20*time.Millisecond)).Get(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestClient_BadJSONBody(t *testing.T) {
	_, err := NewClient().Do(context.Background(), NewPostRequest("http://127.0.0.1:1").WithJSON(make(chan int)))
	assert.ErrorContains(t, err, "encode request body")
}

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	b := NewBreaker("usda", BreakerConfig{Enabled: true, ConsecutiveFailures: 2, Timeout: time.Minute}, logger.Nop())
	c := NewClient(WithBreaker(b))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := c.Get(ctx, srv.URL)
		require.NoError(t, err, "server errors are returned as responses")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}
	assert.Equal(t, "open", c.BreakerState())

	_, err := c.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load(), "open breaker short-circuits")
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewBreaker("spoonacular", BreakerConfig{Enabled: true, ConsecutiveFailures: 1}, logger.Nop())
	c := NewClient(WithBreaker(b))
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, "closed", c.BreakerState())
}

func TestBreaker_DisabledIsNil(t *testing.T) {
	assert.Nil(t, NewBreaker("x", BreakerConfig{}, logger.Nop()))
	assert.Equal(t, "closed", NewClient().BreakerState())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithRetry(retry.Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_RetryReturnsLastServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithRetry(retry.Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_RetryDoesNotRepeatClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(WithRetry(retry.Config{MaxAttempts: 3, InitialBackoff: time.Millisecond}))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_RetryStopsAtOpenBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewBreaker("usda", BreakerConfig{Enabled: true, ConsecutiveFailures: 1, Timeout: time.Minute}, logger.Nop())
	c := NewClient(
		WithBreaker(b),
		WithRetry(retry.Config{MaxAttempts: 5, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}),
	)
	_, err := c.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_RetryTransportFailure(t *testing.T) {
	c := NewClient(WithRetry(retry.Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}))
	_, err := c.Get(context.Background(), "http://127.0.0.1:1")
	assert.ErrorContains(t, err, "http request failed")
}
