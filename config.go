package threadpool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-based counterpart of Options plus provider settings.
// Durations are strings in time.ParseDuration syntax so configs stay
// readable ("150s", "2m30s").
type Config struct {
	MaxThreads      int    `yaml:"max_threads" json:"max_threads"`
	KeepAlivePeriod string `yaml:"keep_alive_period" json:"keep_alive_period"`

	Provider ProviderFileConfig `yaml:"provider" json:"provider"`
}

// ProviderFileConfig configures the goroutine provider.
type ProviderFileConfig struct {
	PinWorkers     bool   `yaml:"pin_workers" json:"pin_workers"`
	RespawnRounds  int    `yaml:"respawn_rounds" json:"respawn_rounds"`
	RespawnInitial string `yaml:"respawn_initial" json:"respawn_initial"`
	RespawnMax     string `yaml:"respawn_max" json:"respawn_max"`
}

// LoadConfig reads a pool configuration from a YAML (.yaml/.yml) or JSON
// (.json) file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and duration syntax.
func (c *Config) Validate() error {
	if c.MaxThreads < 1 {
		return ErrInvalidMaxThreads
	}
	for name, v := range map[string]string{
		"keep_alive_period": c.KeepAlivePeriod,
		"respawn_initial":   c.Provider.RespawnInitial,
		"respawn_max":       c.Provider.RespawnMax,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}

// Options converts the file config into pool Options. Unset durations
// fall back to package defaults via FillDefaults.
func (c *Config) Options() Options {
	var opts Options
	opts.KeepAlivePeriod = parseDuration(c.KeepAlivePeriod)
	opts.FillDefaults()
	return opts
}

// ProviderOptions converts the provider section into ProviderOptions.
func (c *Config) ProviderOptions() ProviderOptions {
	return ProviderOptions{
		Respawn: RetryPolicy{
			Attempts: c.Provider.RespawnRounds,
			Initial:  parseDuration(c.Provider.RespawnInitial),
			Max:      parseDuration(c.Provider.RespawnMax),
		},
		PinWorkers: c.Provider.PinWorkers,
	}
}

// parseDuration returns 0 for empty or invalid strings; Validate has
// already rejected invalid ones on the load path.
func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
