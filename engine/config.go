package engine

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk shape a host can hand to WithConfigFile instead of
// composing Options in Go: a YAML document with the same knobs New's
// functional options expose, for hosts that drive the engine from an
// external config file rather than code (§6 Host API options).
type Config struct {
	RecursionCap    int  `yaml:"recursionCap"`
	DebugBufferSize int  `yaml:"debugBufferSize"`
	DebugDropOldest bool `yaml:"debugDropOldest"`
}

// LoadConfig parses a YAML config file into a Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WithConfig applies every non-zero field of cfg as the matching Option,
// so a host can combine a YAML-loaded Config with Go-authored Options in
// the same New call.
func WithConfig(cfg *Config) Option {
	return func(e *Engine) {
		if cfg.RecursionCap > 0 {
			WithRecursionCap(cfg.RecursionCap)(e)
		}
		if cfg.DebugBufferSize > 0 {
			WithDebugBufferSize(cfg.DebugBufferSize)(e)
		}
		if cfg.DebugDropOldest {
			WithDebugDropOldest(e)
		}
	}
}

// WithConfigFile loads path as YAML and applies it the same way WithConfig
// does. A read or parse error is silently ignored, since New returns no
// error (§6 Host API: New never fails); a host that needs to fail hard on
// a bad config file should call LoadConfig directly and pass WithConfig.
func WithConfigFile(path string) Option {
	return func(e *Engine) {
		cfg, err := LoadConfig(path)
		if err != nil {
			return
		}
		WithConfig(cfg)(e)
	}
}
