package limiter

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds the per-minute ceilings for every tier.
type Config struct {
	SensitivePerMin        int `mapstructure:"sensitive_per_min"`
	ThirdPartyAuthPerMin   int `mapstructure:"third_party_auth_per_min"`
	ThirdPartyUnauthPerMin int `mapstructure:"third_party_unauth_per_min"`
	AuthPerMin             int `mapstructure:"auth_per_min"`
	UnauthPerMin           int `mapstructure:"unauth_per_min"`

	// StaleAfter is the minimum age at which Sweep drops an in-memory window.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

const Window = 60 * time.Second

func DefaultConfig() Config {
	return Config{
		SensitivePerMin:        5,
		ThirdPartyAuthPerMin:   60,
		ThirdPartyUnauthPerMin: 15,
		AuthPerMin:             150,
		UnauthPerMin:           50,
		StaleAfter:             120 * time.Second,
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.SensitivePerMin == 0 {
		c.SensitivePerMin = d.SensitivePerMin
	}
	if c.ThirdPartyAuthPerMin == 0 {
		c.ThirdPartyAuthPerMin = d.ThirdPartyAuthPerMin
	}
	if c.ThirdPartyUnauthPerMin == 0 {
		c.ThirdPartyUnauthPerMin = d.ThirdPartyUnauthPerMin
	}
	if c.AuthPerMin == 0 {
		c.AuthPerMin = d.AuthPerMin
	}
	if c.UnauthPerMin == 0 {
		c.UnauthPerMin = d.UnauthPerMin
	}
	if c.StaleAfter == 0 {
		c.StaleAfter = d.StaleAfter
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SensitivePerMin, validation.Required, validation.Min(1)),
		validation.Field(&c.ThirdPartyAuthPerMin, validation.Required, validation.Min(1)),
		validation.Field(&c.ThirdPartyUnauthPerMin, validation.Required, validation.Min(1)),
		validation.Field(&c.AuthPerMin, validation.Required, validation.Min(1)),
		validation.Field(&c.UnauthPerMin, validation.Required, validation.Min(1)),
		validation.Field(&c.StaleAfter, validation.Min(Window)),
	)
}
