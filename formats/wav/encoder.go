// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/dmix"
)

// Encoder is an audio.Sink writing every period to a WAV file. The sizes
// in the header are fixed up on Close, so w must be seekable; use WriteWAV
// for pipes.
type Encoder struct {
	enc      *wav.Encoder
	format   dmix.Format
	channels int
	buf      *goaudio.IntBuffer
	wrote    bool
}

var _ audio.Sink = (*Encoder)(nil)

// NewEncoder prepares a WAV writer for periods of the given layout.
func NewEncoder(w io.WriteSeeker, sampleRate, channels int, f dmix.Format) (*Encoder, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	return &Encoder{
		enc:      wav.NewEncoder(w, sampleRate, f.BitDepth(), channels, formatPCM),
		format:   f,
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: f.BitDepth(),
		},
	}, nil
}

// WritePeriod implements audio.Sink.
func (e *Encoder) WritePeriod(p audio.Period) error {
	if p.Format != e.format || p.Channels != e.channels {
		return fmt.Errorf("%w: period is %d x %v", ErrUnsupportedFormat, p.Channels, p.Format)
	}

	width := e.format.Width()
	n := p.Frames * p.Channels
	if cap(e.buf.Data) < n {
		e.buf.Data = make([]int, n)
	}
	e.buf.Data = e.buf.Data[:n]
	for i := range n {
		v := dmix.Decode(e.format, p.Data[i*width:])
		if e.format == dmix.S32 {
			v <<= 8
		}
		e.buf.Data[i] = int(v)
	}

	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("wav period %d: %w", p.Index, err)
	}
	e.wrote = true
	return nil
}

// Close finalises the header. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if !e.wrote {
		// go-audio only emits the header along with the first samples
		if err := e.enc.Write(&goaudio.IntBuffer{Format: e.buf.Format}); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
