package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func miniConfig(t *testing.T, mr *miniredis.Miniredis) Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return Config{
		Enabled:     true,
		Host:        mr.Host(),
		Port:        port,
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 200 * time.Millisecond,
	}
}

func TestManager_LazyProbe(t *testing.T) {
	mr := miniredis.RunT(t)
	log, _ := logger.NewTestLogger("redis")
	m := NewManager(miniConfig(t, mr), log)
	defer m.Close()

	assert.False(t, m.Connected(), "no probe before first use")

	client := m.Client(context.Background())
	require.NotNil(t, client)
	assert.True(t, m.Connected())
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestManager_Disabled(t *testing.T) {
	m := NewManager(Config{}, logger.Nop())
	assert.Nil(t, m.Client(context.Background()))
	assert.False(t, m.Probe(context.Background()))
	assert.NoError(t, m.Close())
}

func TestManager_FailedProbeIsThrottled(t *testing.T) {
	mr := miniredis.RunT(t)
	log, logs := logger.NewTestLogger("redis")
	cfg := miniConfig(t, mr)
	cfg.ProbeInterval = time.Minute
	m := NewManager(cfg, log)
	defer m.Close()

	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	mr.SetError("LOADING")
	assert.Nil(t, m.Client(context.Background()))
	assert.Nil(t, m.Client(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("Redis connection failed, using in-memory fallback").Len())

	mr.SetError("")
	assert.Nil(t, m.Client(context.Background()), "still inside the probe interval")

	now = now.Add(61 * time.Second)
	assert.NotNil(t, m.Client(context.Background()))
	assert.True(t, m.Connected())
}

func TestManager_CloseStopsServing(t *testing.T) {
	mr := miniredis.RunT(t)
	m := NewManager(miniConfig(t, mr), logger.Nop())
	require.NotNil(t, m.Client(context.Background()))

	require.NoError(t, m.Shutdown())
	assert.False(t, m.Connected())
	assert.Nil(t, m.Client(context.Background()))
	assert.NoError(t, m.Close(), "second close is a no-op")
}

func TestHealthChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManagerWithClient(client, Config{}, logger.Nop())
	defer m.Close()

	h := NewHealthChecker(m)
	assert.Equal(t, "redis", h.Name())
	assert.NoError(t, h.Check(context.Background()))

	mr.Close()
	assert.Error(t, h.Check(context.Background()))
	assert.False(t, m.Connected())

	assert.Error(t, NewHealthChecker(NewManager(Config{}, logger.Nop())).Check(context.Background()))
}

func TestConfig_DefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
	assert.NoError(t, cfg.Validate())

	cfg.DB = 16
	assert.Error(t, cfg.Validate())
}
