package cache

import "fmt"

type Config struct {
	// MaxMemoryEntries bounds the in-process fallback.
	MaxMemoryEntries int `mapstructure:"max_memory_entries"`
	// KeyPrefix is prepended to every Redis key.
	KeyPrefix string `mapstructure:"key_prefix"`
}

const DefaultMaxMemoryEntries = 1000

func (c *Config) ApplyDefaults() {
	if c.MaxMemoryEntries == 0 {
		c.MaxMemoryEntries = DefaultMaxMemoryEntries
	}
}

func (c Config) Validate() error {
	if c.MaxMemoryEntries < 1 {
		return fmt.Errorf("cache max_memory_entries must be >= 1, got: %d", c.MaxMemoryEntries)
	}
	return nil
}
