package usda

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/httpclient"
	"github.com/snacktrack/snacktrack-api/retry"
)

const (
	DefaultBaseURL     = "https://api.nal.usda.gov/fdc/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultHourlyLimit = 1000
)

// Config for the FoodData Central client. An empty APIKey disables the client.
type Config struct {
	APIKey      string                   `mapstructure:"api_key"`
	BaseURL     string                   `mapstructure:"base_url"`
	Timeout     time.Duration            `mapstructure:"timeout"`
	HourlyLimit int                      `mapstructure:"hourly_limit"`
	Breaker     httpclient.BreakerConfig `mapstructure:"breaker"`
	Retry       retry.Config             `mapstructure:"retry"`
}

func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.Retry.ApplyDefaults()
	if c.HourlyLimit == 0 {
		c.HourlyLimit = DefaultHourlyLimit
	}
}

func (c Config) Validate() error {
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Second)),
		validation.Field(&c.HourlyLimit, validation.Min(1)),
	)
}

// Configured reports whether an API key is set.
func (c Config) Configured() bool {
	return c.APIKey != ""
}
