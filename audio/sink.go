// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/dmixpbx/dmix"
)

// Period is one published bus period. Data is only valid until the sink
// returns; copy it to keep it.
type Period struct {
	Index    int
	Frames   int
	Format   dmix.Format
	Rate     int
	Channels int
	Data     []byte
}

// Sink consumes published periods.
type Sink interface {
	WritePeriod(p Period) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(p Period) error

func (f SinkFunc) WritePeriod(p Period) error { return f(p) }

// Collector is a Sink that keeps a copy of everything written to it.
type Collector struct {
	Periods int
	Frames  int
	Data    []byte
}

func (c *Collector) WritePeriod(p Period) error {
	c.Periods++
	c.Frames += p.Frames
	c.Data = append(c.Data, p.Data...)
	return nil
}
