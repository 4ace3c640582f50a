package health

import "time"

type Config struct {
	// Timeout bounds a whole Check run.
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() Config {
	return Config{Timeout: 2 * time.Second}
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultConfig().Timeout
	}
}
