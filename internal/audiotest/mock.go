// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrMock is returned by failing sources.
var ErrMock = errors.New("audiotest: mock failure")

// MockSource generates frames from a waveform function. It implements the
// audio.Source interface without importing it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	generated  int
	waveform   func(frame, channel int) float32
	// chunk caps the frames returned per read, 0 means unlimited.
	chunk  int
	failAt    int
	failClose bool
	closed    bool
}

// NewMockSource creates a source of frames frames.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
		failAt:     -1,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with a constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// NewSliceSource plays back interleaved samples.
func NewSliceSource(sampleRate, channels int, samples []float32) *MockSource {
	return NewMockSource(sampleRate, channels, len(samples)/channels, func(frame, channel int) float32 {
		return samples[frame*channels+channel]
	})
}

// WithChunk limits every read to at most frames frames.
func (m *MockSource) WithChunk(frames int) *MockSource {
	m.chunk = frames
	return m
}

// FailAt makes the read that reaches frame return ErrMock.
func (m *MockSource) FailAt(frame int) *MockSource {
	m.failAt = frame
	return m
}

// FailClose makes Close return ErrMock.
func (m *MockSource) FailClose() *MockSource {
	m.failClose = true
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error {
	m.closed = true
	if m.failClose {
		return ErrMock
	}
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.generated)
	if m.chunk > 0 {
		n = min(n, m.chunk)
	}
	if m.failAt >= 0 && m.generated+n > m.failAt {
		return 0, ErrMock
	}

	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += n

	if m.generated >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
