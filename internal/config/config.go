package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	defaultClockFormat  = ClockSystem
	defaultTickInterval = time.Minute
	defaultDebounce     = 500 * time.Millisecond
	defaultColumns      = 40
	defaultConfigFile   = "~/.config/muzewatch/config.toml"
)

// Clock format values
const (
	ClockSystem = "system"
	Clock12h    = "12h"
	Clock24h    = "24h"
)

// fileConfig mirrors the optional TOML file
type fileConfig struct {
	Round        *bool  `toml:"round"`
	ClockFormat  string `toml:"clock_format"`
	TickInterval string `toml:"tick_interval"`
	Debounce     string `toml:"debounce"`
	Columns      int    `toml:"columns"`
}

// AppConfig holds application configuration
type AppConfig struct {
	logger       *zap.Logger
	path         string
	round        bool
	clockFormat  string
	tickInterval time.Duration
	debounce     time.Duration
	columns      int
}

// NewAppConfig creates a new application configuration instance.
// Precedence: environment variables, then the TOML file, then defaults.
// Invalid values are logged and replaced by defaults.
func NewAppConfig(logger *zap.Logger) *AppConfig {
	path := os.Getenv("MUZEWATCH_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	path = expandPath(path)

	c := &AppConfig{
		logger:       logger,
		path:         path,
		clockFormat:  defaultClockFormat,
		tickInterval: defaultTickInterval,
		debounce:     defaultDebounce,
		columns:      defaultColumns,
	}

	if err := c.loadFile(path); err != nil {
		logger.Warn("Ignoring config file", zap.String("path", path), zap.Error(err))
	}
	c.loadEnv()

	logger.Info("Configuration loaded",
		zap.String("path", path),
		zap.Bool("round", c.round),
		zap.String("clockFormat", c.clockFormat),
		zap.Duration("tickInterval", c.tickInterval),
		zap.Duration("debounce", c.debounce),
		zap.Int("columns", c.columns))

	return c
}

func (c *AppConfig) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if fc.Round != nil {
		c.round = *fc.Round
	}
	if fc.ClockFormat != "" {
		c.setClockFormat(fc.ClockFormat)
	}
	if fc.TickInterval != "" {
		c.setDuration(&c.tickInterval, "tick_interval", fc.TickInterval)
	}
	if fc.Debounce != "" {
		c.setDuration(&c.debounce, "debounce", fc.Debounce)
	}
	if fc.Columns > 0 {
		c.columns = fc.Columns
	}
	return nil
}

func (c *AppConfig) loadEnv() {
	if v := os.Getenv("MUZEWATCH_ROUND"); v != "" {
		round, err := strconv.ParseBool(v)
		if err != nil {
			c.logger.Warn("Invalid MUZEWATCH_ROUND, ignoring", zap.String("value", v))
		} else {
			c.round = round
		}
	}
	if v := os.Getenv("MUZEWATCH_CLOCK"); v != "" {
		c.setClockFormat(v)
	}
	if v := os.Getenv("MUZEWATCH_TICK"); v != "" {
		c.setDuration(&c.tickInterval, "MUZEWATCH_TICK", v)
	}
	if v := os.Getenv("MUZEWATCH_COLUMNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.logger.Warn("Invalid MUZEWATCH_COLUMNS, ignoring", zap.String("value", v))
		} else {
			c.columns = n
		}
	}
}

func (c *AppConfig) setClockFormat(v string) {
	switch v {
	case ClockSystem, Clock12h, Clock24h:
		c.clockFormat = v
	default:
		c.logger.Warn("Unknown clock format, ignoring", zap.String("value", v))
	}
}

func (c *AppConfig) setDuration(dst *time.Duration, name, v string) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.logger.Warn("Invalid duration, ignoring", zap.String("key", name), zap.String("value", v))
		return
	}
	*dst = d
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

// Path returns the config file that was consulted
func (c *AppConfig) Path() string {
	return c.path
}

// IsRound reports whether the display should be treated as round
func (c *AppConfig) IsRound() bool {
	return c.round
}

// ClockFormat returns "system", "12h" or "24h"
func (c *AppConfig) ClockFormat() string {
	return c.clockFormat
}

// TickInterval is how often the ambient time is refreshed
func (c *AppConfig) TickInterval() time.Duration {
	return c.tickInterval
}

// DebounceInterval is the quiet period before player changes are applied
func (c *AppConfig) DebounceInterval() time.Duration {
	return c.debounce
}

// Columns is the width of the text surface in cells
func (c *AppConfig) Columns() int {
	return c.columns
}
