// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/dmixpbx/audio"
)

// go-mp3 always decodes to interleaved stereo.
const channels = 2

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	io.Reader
	SampleRate() int
}

func newSource(dec mp3Reader) audio.Source {
	return audio.NewPCM16Source(dec, dec.SampleRate(), channels)
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return newSource(dec), nil
}
