package config

import (
	"os"
	"path/filepath"
)

// LoaderBuilder assembles the standard source stack.
type LoaderBuilder struct {
	configPath  string
	envPrefix   string
	defaults    map[string]any
	envBindings map[string]string
}

func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigPath sets the directory holding config.yaml and {env}.yaml.
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

func (b *LoaderBuilder) WithDefaults(defaults map[string]any) *LoaderBuilder {
	b.defaults = defaults
	return b
}

// WithEnvBindings maps config keys to environment variable names.
func (b *LoaderBuilder) WithEnvBindings(bindings map[string]string) *LoaderBuilder {
	b.envBindings = bindings
	return b
}

func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if len(b.defaults) > 0 {
		loader.AddSource(NewMapSource("defaults", 1, b.defaults))
	}
	if b.configPath != "" {
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), 10))
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, GetEnv()+".yaml"), 20))
	}
	if len(b.envBindings) > 0 || b.envPrefix != "" {
		env := NewEnvSource(b.envPrefix, 50)
		for key, envKey := range b.envBindings {
			env.AddBinding(key, envKey)
		}
		loader.AddSource(env)
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}

// GetEnv returns APP_ENV, then ENV, defaulting to "dev".
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
