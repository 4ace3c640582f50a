package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// Config auth settings
type Config struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// SeedDemoUser inserts demo@example.com at startup.
	SeedDemoUser bool `mapstructure:"seed_demo_user"`
}

func DefaultConfig() Config {
	return Config{BcryptCost: DefaultBcryptCost, SeedDemoUser: true}
}

func (c *Config) ApplyDefaults() {
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
}

func (c Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth bcrypt_cost must be between %d and %d, got: %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}
