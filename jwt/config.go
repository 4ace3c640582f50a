package jwt

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config JWT settings
type Config struct {
	Secret    string `mapstructure:"secret"`
	Algorithm string `mapstructure:"algorithm"` // HS256, HS384, HS512

	AccessTokenExpireMinutes int `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireDays   int `mapstructure:"refresh_token_expire_days"`

	Blacklist BlacklistConfig `mapstructure:"blacklist"`
}

// BlacklistConfig revoked-token storage
type BlacklistConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"` // memory store only
}

func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = "HS256"
	}
	if c.AccessTokenExpireMinutes == 0 {
		c.AccessTokenExpireMinutes = 30
	}
	if c.RefreshTokenExpireDays == 0 {
		c.RefreshTokenExpireDays = 7
	}
	if c.Blacklist.KeyPrefix == "" {
		c.Blacklist.KeyPrefix = "jwt:blacklist:"
	}
	if c.Blacklist.CleanupInterval == 0 {
		c.Blacklist.CleanupInterval = time.Hour
	}
}

func (c Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretEmpty
	}
	if _, ok := signingMethods[c.Algorithm]; !ok {
		return ErrAlgorithmNotSupported.WithMsgf("jwt algorithm %q is not supported", c.Algorithm)
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.AccessTokenExpireMinutes, validation.Required, validation.Min(1)),
		validation.Field(&c.RefreshTokenExpireDays, validation.Required, validation.Min(1)),
	)
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}
