// SPDX-License-Identifier: EPL-2.0

//go:build !unix

package commands

import (
	"errors"

	"github.com/ik5/dmixpbx/audio"
)

func openBus(cfg audio.BusConfig, path string) (*audio.Bus, func(), error) {
	if path != "" {
		return nil, nil, errors.New("shared bus memory needs a unix system")
	}
	bus, err := audio.NewBus(cfg)
	return bus, func() {}, err
}
