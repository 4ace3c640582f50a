package config

// ConfigSource is one layer of configuration. Keys are dot-separated, e.g. "redis.host".
//
// Priorities used by the builder:
//   - defaults: 1
//   - config.yaml: 10
//   - {env}.yaml: 20
//   - environment variables: 50
type ConfigSource interface {
	Name() string
	Priority() int
	Load() (map[string]any, error)
}

// MapSource serves a fixed map, typically the compiled-in defaults.
type MapSource struct {
	name     string
	priority int
	data     map[string]any
}

func NewMapSource(name string, priority int, data map[string]any) *MapSource {
	return &MapSource{name: name, priority: priority, data: data}
}

func (s *MapSource) Name() string  { return "map:" + s.name }
func (s *MapSource) Priority() int { return s.priority }

func (s *MapSource) Load() (map[string]any, error) {
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}
