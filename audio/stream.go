// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/dmixpbx/dmix"
	"github.com/ik5/dmixpbx/utils"
)

// Stream is one producer. It reads its Source one period at a time,
// encodes the samples into a private buffer and folds them into a Bus.
type Stream struct {
	name  string
	src   Source
	cfg   BusConfig
	buf   []float32
	pcm   []byte
	areas []dmix.Area
	done  bool
}

// NewStream fits src to the bus layout (see Fit) and prepares the private
// source buffer.
func NewStream(name string, src Source, cfg BusConfig) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fitted, err := Fit(src, cfg.Rate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", name, err)
	}

	s := &Stream{
		name:  name,
		src:   fitted,
		cfg:   cfg,
		buf:   make([]float32, cfg.Frames*cfg.Channels),
		pcm:   dmix.NewBuffer(cfg.Frames * cfg.FrameBytes()),
		areas: make([]dmix.Area, cfg.Channels),
	}
	w := cfg.Format.Width()
	for ch := range cfg.Channels {
		if s.areas[ch], err = dmix.NewArea(s.pcm, ch*w, cfg.FrameBytes(), cfg.Format); err != nil {
			return nil, fmt.Errorf("stream %s: %w", name, err)
		}
	}
	return s, nil
}

func (s *Stream) Name() string { return s.name }

// Done reports whether the source has been exhausted.
func (s *Stream) Done() bool { return s.done }

// MixPeriod reads up to one period from the source and mixes it into bus.
// It returns the frames mixed, and io.EOF (possibly alongside frames) once
// the source is exhausted.
func (s *Stream) MixPeriod(bus *Bus) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	n, err := s.fill()
	frames := n / s.cfg.Channels
	if frames > 0 {
		f, w := s.cfg.Format, s.cfg.Format.Width()
		for i, v := range s.buf[:frames*s.cfg.Channels] {
			dmix.EncodeSource(f, s.pcm[i*w:], utils.Float32ToSample(f, v))
		}
		for ch := range s.cfg.Channels {
			bus.Mix(ch, frames, s.areas[ch])
		}
	}

	if errors.Is(err, io.EOF) {
		s.done = true
		return frames, io.EOF
	}
	if err != nil {
		return frames, fmt.Errorf("stream %s: %w", s.name, err)
	}
	return frames, nil
}

// fill reads until the period buffer is full or the source ends.
func (s *Stream) fill() (int, error) {
	n := 0
	for n < len(s.buf) {
		m, err := s.src.ReadSamples(s.buf[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}

func (s *Stream) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("stream %s: %w", s.name, err)
	}
	return nil
}
