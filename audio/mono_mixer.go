// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer averages every frame of a multichannel source into one channel.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	channels := m.src.Channels()
	if channels == 1 || len(dst) == 0 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	frames := n / channels
	inv := 1 / float32(channels)
	for f := range frames {
		var sum float32
		for _, s := range m.tmp[f*channels : (f+1)*channels] {
			sum += s
		}
		dst[f] = sum * inv
	}
	return frames, err
}

// Spreader copies a mono source onto every channel of a wider layout.
type Spreader struct {
	src      Source
	channels int
	tmp      []float32
}

func NewSpreader(src Source, channels int) *Spreader {
	return &Spreader{src: src, channels: channels}
}

func (s *Spreader) SampleRate() int { return s.src.SampleRate() }
func (s *Spreader) Channels() int   { return s.channels }
func (s *Spreader) Close() error    { return s.src.Close() }

func (s *Spreader) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	frames := len(dst) / s.channels
	if cap(s.tmp) < frames {
		s.tmp = make([]float32, frames)
	}
	s.tmp = s.tmp[:frames]

	n, err := s.src.ReadSamples(s.tmp)
	for f, v := range s.tmp[:n] {
		for c := range s.channels {
			dst[f*s.channels+c] = v
		}
	}
	return n * s.channels, err
}

// Fit adapts src to the given rate and channel count. Multichannel sources
// are averaged onto a mono layout and mono sources are copied onto every
// channel; other channel changes return ErrChannelMismatch.
func Fit(src Source, rate, channels int) (Source, error) {
	switch {
	case src.Channels() == channels:
	case channels == 1:
		src = NewMonoMixer(src)
	case src.Channels() == 1:
		src = NewSpreader(src, channels)
	default:
		return nil, fmt.Errorf("%w: %d to %d", ErrChannelMismatch, src.Channels(), channels)
	}
	if src.SampleRate() != rate {
		src = NewResampler(src, rate)
	}
	return src, nil
}
