// SPDX-License-Identifier: EPL-2.0

package dmixpbx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/dmix"
	"github.com/ik5/dmixpbx/formats/aiff"
	"github.com/ik5/dmixpbx/formats/mp3"
	"github.com/ik5/dmixpbx/formats/vorbis"
	"github.com/ik5/dmixpbx/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	return reg
}

// MixSources mixes all sources onto a bus described by cfg until the
// longest one ends, and returns the interleaved bus memory of every
// period. S16 and S32 samples are native endian. The sources are closed.
func MixSources(cfg audio.BusConfig, sources ...audio.Source) (_ []byte, err error) {
	bus, err := audio.NewBus(cfg)
	if err != nil {
		return nil, err
	}

	var out audio.Collector
	eng := audio.NewEngine(bus, &out)
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	for i, src := range sources {
		s, err := audio.NewStream(strconv.Itoa(i), src, cfg)
		if err != nil {
			for _, rest := range sources[i:] {
				_ = rest.Close()
			}
			return nil, err
		}
		eng.Add(s)
	}

	if _, err := eng.Run(context.Background()); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// MixToWAV mixes sources and writes the result to w as a WAV file.
func MixToWAV(w io.Writer, cfg audio.BusConfig, sources ...audio.Source) error {
	pcm, err := MixSources(cfg, sources...)
	if err != nil {
		return err
	}
	return wav.WriteWAV(w, cfg.Rate, cfg.Channels, cfg.Format, pcm)
}

// ResampleToMono16 brings src to targetRate mono and collects it as 16-bit
// PCM, mixing periodFrames frames at a time.
//
//	src, _ := decoder.Decode(file)
//	pcm16, rate, err := dmixpbx.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src audio.Source, targetRate, periodFrames int) ([]int16, int, error) {
	cfg := audio.BusConfig{Format: dmix.S16, Rate: targetRate, Channels: 1, Frames: periodFrames}
	pcm, err := MixSources(cfg, src)
	if err != nil {
		return nil, targetRate, fmt.Errorf("resample: %w", err)
	}

	pcm16 := make([]int16, len(pcm)/2)
	for i := range pcm16 {
		pcm16[i] = int16(dmix.Decode(dmix.S16, pcm[i*2:]))
	}
	return pcm16, targetRate, nil
}
