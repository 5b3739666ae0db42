// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// IntReader is the PCM side of the go-audio decoders (wav, aiff).
type IntReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type intSource struct {
	r          IntReader
	sampleRate int
	channels   int
	scale      float32
	buf        *goaudio.IntBuffer
}

// NewIntSource adapts a go-audio decoder yielding bitDepth-bit integers.
func NewIntSource(r IntReader, sampleRate, channels, bitDepth int) Source {
	return &intSource{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      1 / float32(int64(1)<<(bitDepth-1)),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}
	if err != nil {
		return n, io.EOF
	}
	return n, nil
}

type pcm16Source struct {
	r          io.Reader
	sampleRate int
	channels   int
	buf        []byte
}

// NewPCM16Source reads interleaved 16-bit little-endian PCM from r.
func NewPCM16Source(r io.Reader, sampleRate, channels int) Source {
	return &pcm16Source{r: r, sampleRate: sampleRate, channels: channels}
}

func (s *pcm16Source) SampleRate() int { return s.sampleRate }
func (s *pcm16Source) Channels() int   { return s.channels }

func (s *pcm16Source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *pcm16Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(dst)*2]

	n, err := io.ReadFull(s.r, s.buf)
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768.0
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return samples, io.EOF
	case err != nil:
		return samples, fmt.Errorf("%w", err)
	}
	return samples, nil
}
