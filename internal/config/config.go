package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Limits bounds the engine's resource use.
type Limits struct {
	// MaxDiffBytes caps the size of either diff input.
	MaxDiffBytes int `toml:"max_diff_bytes"`

	// MaxRules bounds the position mapper's rule history.
	MaxRules int `toml:"max_rules"`
}

// Config is the full configuration tree.
type Config struct {
	LogLevel string `toml:"log_level"`
	Limits   Limits `toml:"limits"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Limits: Limits{
			MaxDiffBytes: 1 << 20,
			MaxRules:     8192,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (skipped when path is empty or the file does not exist), and
// REDLINE_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays REDLINE_* environment variables.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("REDLINE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	for env, dst := range map[string]*int{
		"REDLINE_MAX_DIFF_BYTES": &cfg.Limits.MaxDiffBytes,
		"REDLINE_MAX_RULES":      &cfg.Limits.MaxRules,
	} {
		v, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", env, v, err)
		}
		*dst = n
	}
	return nil
}

// SlogLevel maps the configured log level onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
