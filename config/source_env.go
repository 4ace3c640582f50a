package config

import (
	"os"
	"strings"
)

// EnvSource reads environment variables.
//
// With bindings, only the bound variables are read, so flat deployment names such as
// REDIS_HOST can feed nested keys. Without bindings, every PREFIX_A_B variable becomes
// key "a.b".
type EnvSource struct {
	prefix   string
	priority int
	bindings map[string]string
}

func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding maps config key to an environment variable name.
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

func (s *EnvSource) Name() string  { return "env:" + s.prefix }
func (s *EnvSource) Priority() int { return s.priority }

func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			full := envKey
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				full = s.prefix + "_" + envKey
			}
			if value, ok := os.LookupEnv(full); ok && value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}
	prefix := s.prefix + "_"
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		result[strings.ReplaceAll(key, "_", ".")] = value
	}
	return result, nil
}
