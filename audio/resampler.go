// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// hist holds frames t-1, t0, t+1, t+2 around the output position.
	// ahead counts how many of hist[1:] are real frames rather than
	// repeats of the last one.
	hist   [4][]float32
	ahead  int
	primed bool
	pos    float64 // fraction between hist[1] and hist[2]

	in       []float32
	off, n   int
	eof      bool
	alpha    float32
	lp       []float32
	lpPrimed bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		rate:     dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, channels*1024),
		lp:       make([]float32, channels),
	}
	if r.step > 1 {
		r.alpha = 0.5
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull copies the next source frame into frame. It reports false once the
// source is exhausted.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for r.off+r.channels > r.n {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.off, r.n = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(frame, r.in[r.off:r.off+r.channels])
	r.off += r.channels

	if r.alpha > 0 {
		if !r.lpPrimed {
			copy(r.lp, frame)
			r.lpPrimed = true
		}
		for c := range frame {
			r.lp[c] += r.alpha * (frame[c] - r.lp[c])
			frame[c] = r.lp[c]
		}
	}
	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.pull(r.hist[1])
	if err != nil || !ok {
		return err
	}
	copy(r.hist[0], r.hist[1])
	r.ahead = 1
	for k := 2; k < 4; k++ {
		ok, err := r.pull(r.hist[k])
		if err != nil {
			return err
		}
		if ok {
			r.ahead++
		} else {
			copy(r.hist[k], r.hist[k-1])
		}
	}
	return nil
}

func (r *Resampler) advance() error {
	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], r.hist[0]
	if r.ahead > 0 {
		r.ahead--
	}
	ok, err := r.pull(r.hist[3])
	if err != nil {
		return err
	}
	if ok {
		r.ahead++
	} else {
		copy(r.hist[3], r.hist[2])
	}
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		r.primed = true
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	out := 0
	for out+r.channels <= len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return out, err
			}
		}
		if r.ahead < 1 {
			break
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[out+c] = cubic(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		out += r.channels
		r.pos += r.step
	}

	if r.ahead < 1 {
		return out, io.EOF
	}
	return out, nil
}

// cubic is Catmull-Rom interpolation between y1 (x=0) and y2 (x=1).
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}
