// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/dmix"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dmix.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
bus:
  format: s24_3le
  rate: 44100
  period_frames: 256
output: mix.wav
inputs:
  - a.wav
  - b.mp3
shm:
  path: /dev/shm/dmix
logging:
  level: DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bus, err := cfg.BusConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := audio.BusConfig{Format: dmix.S24_3LE, Rate: 44100, Channels: 2, Frames: 256}
	if bus != want {
		t.Errorf("BusConfig() = %+v, want %+v", bus, want)
	}
	if cfg.Output != "mix.wav" || len(cfg.Inputs) != 2 || cfg.Inputs[1] != "b.mp3" {
		t.Errorf("output/inputs = %q %q", cfg.Output, cfg.Inputs)
	}
	if cfg.Shm.Path != "/dev/shm/dmix" {
		t.Errorf("shm path = %q", cfg.Shm.Path)
	}
	if l, _ := cfg.LogLevel(); l != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", l)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"unknown format", "bus:\n  format: f32\n"},
		{"zero rate", "bus:\n  rate: 0\n"},
		{"negative channels", "bus:\n  channels: -1\n"},
		{"negative max periods", "bus:\n  max_periods: -3\n"},
		{"bad level", "logging:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Load(writeConfig(t, tt.body)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if _, err := Load(writeConfig(t, "bus: [")); err == nil || errors.Is(err, ErrInvalidConfig) {
		t.Errorf("malformed yaml error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	bus, _ := cfg.BusConfig()
	if bus.Format != dmix.S16 || bus.Rate != 48000 || bus.Channels != 2 || bus.Frames != 1024 {
		t.Errorf("default bus = %+v", bus)
	}
	if l, _ := cfg.LogLevel(); l != slog.LevelInfo {
		t.Errorf("default level = %v", l)
	}
}
