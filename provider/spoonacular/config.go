package spoonacular

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/httpclient"
	"github.com/snacktrack/snacktrack-api/retry"
)

const (
	DefaultBaseURL = "https://api.spoonacular.com"
	DefaultTimeout = 30 * time.Second
)

// Config for the Spoonacular client. Without an APIKey the recipe routes serve the
// sample catalog.
type Config struct {
	APIKey  string                   `mapstructure:"api_key"`
	BaseURL string                   `mapstructure:"base_url"`
	Timeout time.Duration            `mapstructure:"timeout"`
	Breaker httpclient.BreakerConfig `mapstructure:"breaker"`
	Retry   retry.Config             `mapstructure:"retry"`
}

func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.Retry.ApplyDefaults()
}

func (c Config) Validate() error {
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Second)),
	)
}

func (c Config) Configured() bool {
	return c.APIKey != ""
}
