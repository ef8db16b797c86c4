// Package config loads rowclash settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Decks       string `toml:"decks"        env:"ROWCLASH_DECKS"`        // Path to decks YAML
	Port        string `toml:"port"         env:"ROWCLASH_PORT"`         // TCP game port
	WebPort     string `toml:"web_port"     env:"ROWCLASH_WEB_PORT"`     // HTTP port for the web UI
	DBPath      string `toml:"db_path"      env:"ROWCLASH_DB"`           // SQLite match history; empty disables it
	Seed        int64  `toml:"seed"         env:"ROWCLASH_SEED"`         // 0 picks a seed from the clock
	InitialHand int    `toml:"initial_hand" env:"ROWCLASH_INITIAL_HAND"` // Cards dealt in round 1
	RoundDraw   int    `toml:"round_draw"   env:"ROWCLASH_ROUND_DRAW"`   // Cards drawn in later rounds
	LogLevel    string `toml:"log_level"    env:"ROWCLASH_LOG_LEVEL"`    // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Decks:       "decks.yaml",
		Port:        "9999",
		WebPort:     "8080",
		DBPath:      "rowclash.db",
		InitialHand: 10,
		RoundDraw:   2,
		LogLevel:    "info",
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (skipped when path is empty or the file does not exist), then ROWCLASH_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables. Unset variables
// leave the target's fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks ports, sizes and the log level.
func (c *Config) Validate() error {
	var errs []error
	for name, port := range map[string]string{"port": c.Port, "web_port": c.WebPort} {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			errs = append(errs, fmt.Errorf("%s: invalid port %q", name, port))
		}
	}
	if c.InitialHand < 0 {
		errs = append(errs, fmt.Errorf("initial_hand must be >= 0, got %d", c.InitialHand))
	}
	if c.RoundDraw < 0 {
		errs = append(errs, fmt.Errorf("round_draw must be >= 0, got %d", c.RoundDraw))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// NewLogger returns a text slog.Logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
