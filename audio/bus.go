// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/dmixpbx/dmix"
)

// BusConfig describes the shared period every stream mixes into.
type BusConfig struct {
	Format   dmix.Format
	Rate     int
	Channels int
	// Frames per period.
	Frames int
}

func (c BusConfig) Validate() error {
	switch {
	case !c.Format.Valid():
		return fmt.Errorf("%w: format %v", ErrInvalidBusConfig, c.Format)
	case c.Rate <= 0:
		return fmt.Errorf("%w: rate %d", ErrInvalidBusConfig, c.Rate)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels %d", ErrInvalidBusConfig, c.Channels)
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames %d", ErrInvalidBusConfig, c.Frames)
	}
	return nil
}

// FrameBytes is the size of one interleaved destination frame.
func (c BusConfig) FrameBytes() int { return c.Channels * c.Format.Width() }

// DstBytes is the destination buffer size, rounded up to whole words.
func (c BusConfig) DstBytes() int { return (c.Frames*c.FrameBytes() + 3) &^ 3 }

// SumBytes is the accumulator buffer size.
func (c BusConfig) SumBytes() int { return c.Frames * c.Channels * 4 }

// Bus is the shared destination and accumulator memory of one period,
// laid out interleaved. Streams mix into it concurrently; the engine
// clears it between periods.
type Bus struct {
	cfg  BusConfig
	dst  []byte
	sum  []byte
	dsts []dmix.Area
	sums []dmix.Area
}

// NewBus allocates the memory for cfg.
func NewBus(cfg BusConfig) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewBusOn(cfg, dmix.NewBuffer(cfg.DstBytes()), dmix.NewBuffer(cfg.SumBytes()))
}

// NewBusOn lays a bus over caller provided memory, for example a mapping
// shared with other processes. dst needs cfg.DstBytes() and sum
// cfg.SumBytes() bytes; both must be word aligned.
func NewBusOn(cfg BusConfig, dst, sum []byte) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(dst) < cfg.DstBytes() || len(sum) < cfg.SumBytes() {
		return nil, fmt.Errorf("%w: need %d+%d bytes, got %d+%d",
			ErrInvalidBusConfig, cfg.DstBytes(), cfg.SumBytes(), len(dst), len(sum))
	}

	b := &Bus{
		cfg:  cfg,
		dst:  dst[:cfg.DstBytes()],
		sum:  sum[:cfg.SumBytes()],
		dsts: make([]dmix.Area, cfg.Channels),
		sums: make([]dmix.Area, cfg.Channels),
	}
	w := cfg.Format.Width()
	for ch := range cfg.Channels {
		var err error
		if b.dsts[ch], err = dmix.NewArea(b.dst, ch*w, cfg.FrameBytes(), cfg.Format); err != nil {
			return nil, fmt.Errorf("bus destination: %w", err)
		}
		if b.sums[ch], err = dmix.NewSumArea(b.sum, ch*4, cfg.Channels*4); err != nil {
			return nil, fmt.Errorf("bus accumulator: %w", err)
		}
	}
	return b, nil
}

func (b *Bus) Config() BusConfig { return b.cfg }

// DstArea is the destination area of channel ch.
func (b *Bus) DstArea(ch int) dmix.Area { return b.dsts[ch] }

// SumArea is the accumulator area of channel ch.
func (b *Bus) SumArea(ch int) dmix.Area { return b.sums[ch] }

// Mix folds frames frames of src into channel ch. Safe for concurrent use.
func (b *Bus) Mix(ch, frames int, src dmix.Area) {
	dmix.Mix(b.cfg.Format, min(frames, b.cfg.Frames), b.dsts[ch], src, b.sums[ch])
}

// Clear resets the whole period. No Mix may run at the same time.
func (b *Bus) Clear() {
	for ch := range b.cfg.Channels {
		dmix.Clear(b.cfg.Format, b.cfg.Frames, b.dsts[ch], b.sums[ch])
	}
}

// Bytes is the interleaved destination of the first frames frames.
func (b *Bus) Bytes(frames int) []byte {
	return b.dst[:min(frames, b.cfg.Frames)*b.cfg.FrameBytes()]
}

// Samples decodes the first frames interleaved destination frames into
// out, growing it as needed. It is safe to call while streams are mixing.
// See dmix.Decode for the value domains.
func (b *Bus) Samples(frames int, out []int32) []int32 {
	frames = min(frames, b.cfg.Frames)
	out = out[:0]
	for f := range frames {
		for ch := range b.cfg.Channels {
			out = append(out, dmix.Load(b.cfg.Format, b.dsts[ch], f))
		}
	}
	return out
}
