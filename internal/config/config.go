// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML description of a mixing job.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/dmix"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Bus     BusConfig     `yaml:"bus"`
	Output  string        `yaml:"output"`
	Inputs  []string      `yaml:"inputs"`
	Shm     ShmConfig     `yaml:"shm"`
	Logging LoggingConfig `yaml:"logging"`
}

type BusConfig struct {
	Format       string `yaml:"format"`
	Rate         int    `yaml:"rate"`
	Channels     int    `yaml:"channels"`
	PeriodFrames int    `yaml:"period_frames"`
	// MaxPeriods stops the mix early; 0 runs until every input ends.
	MaxPeriods int `yaml:"max_periods"`
}

// ShmConfig places the bus in a file mapped by every mixer sharing it.
type ShmConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default is a stereo 48kHz S16 bus with 1024 frame periods.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Format:       dmix.S16.String(),
			Rate:         48000,
			Channels:     2,
			PeriodFrames: 1024,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.BusConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Bus.MaxPeriods < 0 {
		return fmt.Errorf("%w: max_periods %d", ErrInvalidConfig, c.Bus.MaxPeriods)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// BusConfig converts the bus section for audio.NewBus.
func (c *Config) BusConfig() (audio.BusConfig, error) {
	f, err := dmix.ParseFormat(c.Bus.Format)
	if err != nil {
		return audio.BusConfig{}, err
	}
	cfg := audio.BusConfig{
		Format:   f,
		Rate:     c.Bus.Rate,
		Channels: c.Bus.Channels,
		Frames:   c.Bus.PeriodFrames,
	}
	if err := cfg.Validate(); err != nil {
		return audio.BusConfig{}, err
	}
	return cfg, nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if c.Logging.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToLower(c.Logging.Level))); err != nil {
		return l, fmt.Errorf("logging level %q: %w", c.Logging.Level, err)
	}
	return l, nil
}
