package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Loader merges sources in priority order (higher wins) into a viper instance.
type Loader struct {
	sources      []ConfigSource
	mergedConfig map[string]any
	v            *viper.Viper
	loadedFiles  []string
}

func NewLoader() *Loader {
	return &Loader{
		mergedConfig: make(map[string]any),
		v:            viper.New(),
	}
}

func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Load reads every source and rebuilds the merged view.
func (l *Loader) Load() error {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	l.mergedConfig = make(map[string]any)
	l.loadedFiles = l.loadedFiles[:0]
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if fs, ok := source.(*FileSource); ok && len(data) > 0 {
			l.loadedFiles = append(l.loadedFiles, fs.path)
		}
		for k, v := range data {
			l.mergedConfig[k] = v
		}
	}

	l.v = viper.New()
	for k, v := range unflattenMap(l.mergedConfig) {
		l.v.Set(k, v)
	}
	return nil
}

// {"redis.port": 6379} -> {"redis": {"port": 6379}}
func unflattenMap(flat map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		current := result
		for _, p := range parts[:len(parts)-1] {
			next, ok := current[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[p] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = value
	}
	return result
}

// Unmarshal decodes the merged view using mapstructure tags.
func (l *Loader) Unmarshal(v any) error {
	return l.v.Unmarshal(v)
}

func (l *Loader) Get(key string) any          { return l.v.Get(key) }
func (l *Loader) GetString(key string) string { return l.v.GetString(key) }
func (l *Loader) GetInt(key string) int       { return l.v.GetInt(key) }
func (l *Loader) GetBool(key string) bool     { return l.v.GetBool(key) }
func (l *Loader) IsSet(key string) bool       { return l.v.IsSet(key) }

// GetLoadedFiles lists the files that contributed values.
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}
