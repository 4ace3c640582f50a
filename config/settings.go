package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/auth"
	"github.com/snacktrack/snacktrack-api/cache"
	"github.com/snacktrack/snacktrack-api/health"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/jwt"
	"github.com/snacktrack/snacktrack-api/limiter"
	"github.com/snacktrack/snacktrack-api/logger"
	"github.com/snacktrack/snacktrack-api/provider/spoonacular"
	"github.com/snacktrack/snacktrack-api/provider/usda"
	"github.com/snacktrack/snacktrack-api/redis"
	"github.com/snacktrack/snacktrack-api/telemetry"
)

// DevJWTSecret is only meant for local runs. Production overrides it with JWT_SECRET_KEY.
const DevJWTSecret = "snacktrack-dev-secret-change-me"

// Settings is the full application configuration.
type Settings struct {
	App         AppConfig                `mapstructure:"app"`
	Server      ServerConfig             `mapstructure:"server"`
	CORS        CORSConfig               `mapstructure:"cors"`
	Redis       redis.Config             `mapstructure:"redis"`
	RateLimit   limiter.Config           `mapstructure:"rate_limit"`
	Cache       cache.Config             `mapstructure:"cache"`
	JWT         jwt.Config               `mapstructure:"jwt"`
	Auth        auth.Config              `mapstructure:"auth"`
	USDA        usda.Config              `mapstructure:"usda"`
	Spoonacular spoonacular.Config       `mapstructure:"spoonacular"`
	Logger      logger.ManagerConfig     `mapstructure:"logger"`
	Telemetry   telemetry.Config         `mapstructure:"telemetry"`
	Scheduler   SchedulerConfig          `mapstructure:"scheduler"`
	Worker      WorkerConfig             `mapstructure:"worker"`
	Health      health.Config            `mapstructure:"health"`
	Middleware  MiddlewareConfig         `mapstructure:"middleware"`
	Httpx       httpx.ErrorLoggingConfig `mapstructure:"httpx"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Debug   bool   `mapstructure:"debug"`
	Env     string `mapstructure:"env"`
}

// ServerConfig for the gin HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// SchedulerConfig drives the background maintenance jobs.
type SchedulerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// WorkerConfig sizes the goroutine pool used for batched provider lookups.
type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// MiddlewareConfig toggles the optional request middleware.
type MiddlewareConfig struct {
	RequestLog RequestLogConfig `mapstructure:"request_log"`
}

type RequestLogConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	SkipPaths []string `mapstructure:"skip_paths"`
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Mode, validation.In("debug", "release", "test")),
	)
}

func (c *SchedulerConfig) ApplyDefaults() {
	if c.SweepInterval == 0 {
		c.SweepInterval = 60 * time.Second
	}
}

func (c SchedulerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SweepInterval, validation.Min(time.Second)),
	)
}

func (c *WorkerConfig) ApplyDefaults() {
	if c.PoolSize == 0 {
		c.PoolSize = 16
	}
}

func (c WorkerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PoolSize, validation.Min(1), validation.Max(1024)),
	)
}

// ApplyDefaults fills every section. The app name and version feed logger and telemetry
// when those are left unset.
func (s *Settings) ApplyDefaults() {
	if s.App.Name == "" {
		s.App.Name = "SnackTrack API"
	}
	if s.App.Version == "" {
		s.App.Version = "1.0.0"
	}
	if s.App.Env == "" {
		s.App.Env = GetEnv()
	}
	if s.App.Debug {
		s.Server.Mode = "debug"
		s.Logger.Level = "debug"
	}
	s.Server.ApplyDefaults()
	s.Redis.ApplyDefaults()
	s.RateLimit.ApplyDefaults()
	s.Cache.ApplyDefaults()
	s.JWT.ApplyDefaults()
	s.Auth.ApplyDefaults()
	s.USDA.ApplyDefaults()
	s.Spoonacular.ApplyDefaults()
	if s.Logger.AppName == "" {
		s.Logger.AppName = "snacktrack"
	}
	s.Logger.ApplyDefaults()
	if s.Telemetry.ServiceVersion == "" {
		s.Telemetry.ServiceVersion = s.App.Version
	}
	s.Telemetry.ApplyDefaults()
	s.Scheduler.ApplyDefaults()
	s.Worker.ApplyDefaults()
	s.Health.ApplyDefaults()
	if s.Httpx.LogLevel == "" {
		s.Httpx.LogLevel = httpx.DefaultErrorLoggingConfig().LogLevel
	}
}

// Validate runs every section validator.
func (s Settings) Validate() error {
	return ValidateAll(
		s.Server,
		s.Redis,
		s.RateLimit,
		s.Cache,
		s.JWT,
		s.Auth,
		s.USDA,
		s.Spoonacular,
		s.Logger,
		s.Telemetry,
		s.Scheduler,
		s.Worker,
	)
}

// Defaults are the lowest-priority source. Booleans that default to true live here
// because ApplyDefaults cannot tell false from unset.
func Defaults() map[string]any {
	return map[string]any{
		"app.name":                          "SnackTrack API",
		"app.version":                       "1.0.0",
		"server.port":                       8000,
		"cors.origins":                      []string{"http://localhost:3000", "http://localhost:5173"},
		"redis.enabled":                     true,
		"jwt.secret":                        DevJWTSecret,
		"jwt.blacklist.enabled":             true,
		"auth.seed_demo_user":               true,
		"logger.enable_console":             true,
		"logger.enable_caller":              true,
		"logger.enable_trace_id":            true,
		"telemetry.batch.enabled":           true,
		"usda.breaker.enabled":              true,
		"spoonacular.breaker.enabled":       true,
		"middleware.request_log.enabled":    true,
		"middleware.request_log.skip_paths": []string{"/health", "/health/ready"},
		"httpx.enable":                      true,
		"httpx.full_error_chain":            true,
		"httpx.ignore_http_status":          []int{400, 401, 403, 404, 422, 429},
	}
}

// EnvBindings maps the flat deployment variables onto nested keys.
func EnvBindings() map[string]string {
	return map[string]string{
		"app.name":                              "APP_NAME",
		"app.version":                           "APP_VERSION",
		"app.debug":                             "DEBUG",
		"server.port":                           "PORT",
		"cors.origins":                          "CORS_ORIGINS",
		"redis.enabled":                         "REDIS_ENABLED",
		"redis.host":                            "REDIS_HOST",
		"redis.port":                            "REDIS_PORT",
		"redis.password":                        "REDIS_PASSWORD",
		"redis.db":                              "REDIS_DB",
		"rate_limit.sensitive_per_min":          "RATE_LIMIT_SENSITIVE_PER_MIN",
		"rate_limit.third_party_auth_per_min":   "RATE_LIMIT_THIRD_PARTY_AUTH_PER_MIN",
		"rate_limit.third_party_unauth_per_min": "RATE_LIMIT_THIRD_PARTY_UNAUTH_PER_MIN",
		"rate_limit.auth_per_min":               "RATE_LIMIT_AUTH_PER_MIN",
		"rate_limit.unauth_per_min":             "RATE_LIMIT_UNAUTH_PER_MIN",
		"jwt.secret":                            "JWT_SECRET_KEY",
		"jwt.algorithm":                         "JWT_ALGORITHM",
		"jwt.access_token_expire_minutes":       "JWT_ACCESS_TOKEN_EXPIRE_MINUTES",
		"jwt.refresh_token_expire_days":         "JWT_REFRESH_TOKEN_EXPIRE_DAYS",
		"usda.api_key":                          "USDA_API_KEY",
		"spoonacular.api_key":                   "SPOONACULAR_API_KEY",
		"logger.level":                          "LOG_LEVEL",
		"telemetry.enabled":                     "TELEMETRY_ENABLED",
	}
}

// Load reads path/config.yaml, path/{APP_ENV}.yaml and the bound environment variables.
// An empty path skips the files.
func Load(path string) (*Settings, error) {
	loader, err := NewLoaderBuilder().
		WithConfigPath(path).
		WithDefaults(Defaults()).
		WithEnvBindings(EnvBindings()).
		Build()
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := loader.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}
