// SPDX-License-Identifier: EPL-2.0

//go:build unix

package commands

import (
	"log/slog"

	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/internal/shm"
)

// openBus allocates the bus, or lays it over a shared mapping of path.
func openBus(cfg audio.BusConfig, path string) (*audio.Bus, func(), error) {
	if path == "" {
		bus, err := audio.NewBus(cfg)
		return bus, func() {}, err
	}

	region, err := shm.Open(path, cfg.DstBytes()+cfg.SumBytes())
	if err != nil {
		return nil, nil, err
	}
	mem := region.Bytes()
	bus, err := audio.NewBusOn(cfg, mem[:cfg.DstBytes()], mem[cfg.DstBytes():])
	if err != nil {
		region.Close()
		return nil, nil, err
	}
	slog.Debug("bus mapped", "path", path, "bytes", len(mem))

	release := func() {
		if err := region.Close(); err != nil {
			slog.Warn("unmap bus", "path", path, "error", err)
		}
	}
	return bus, release, nil
}
