// SPDX-License-Identifier: EPL-2.0

package dmixpbx

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ik5/dmixpbx/audio"
	"github.com/ik5/dmixpbx/dmix"
	"github.com/ik5/dmixpbx/formats/wav"
	"github.com/ik5/dmixpbx/internal/audiotest"
)

func TestMixSources_Saturates(t *testing.T) {
	t.Parallel()

	cfg := audio.BusConfig{Format: dmix.S16, Rate: 8000, Channels: 1, Frames: 64}
	pcm, err := MixSources(cfg,
		audiotest.NewConstantSource(8000, 1, 100, 0.75),
		audiotest.NewConstantSource(8000, 1, 100, 0.75),
		audiotest.NewConstantSource(8000, 1, 100, -0.25),
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) != 200 {
		t.Fatalf("len(pcm) = %d, want 200", len(pcm))
	}
	for i := 0; i < len(pcm); i += 2 {
		if v := dmix.Decode(dmix.S16, pcm[i:]); v != math.MaxInt16 {
			t.Fatalf("sample %d = %d, want %d", i/2, v, math.MaxInt16)
		}
	}
}

func TestMixSources_Errors(t *testing.T) {
	t.Parallel()

	if _, err := MixSources(audio.BusConfig{}); !errors.Is(err, audio.ErrInvalidBusConfig) {
		t.Errorf("empty config error = %v", err)
	}

	cfg := audio.BusConfig{Format: dmix.S16, Rate: 8000, Channels: 1, Frames: 4}
	if _, err := MixSources(cfg); !errors.Is(err, audio.ErrNoStreams) {
		t.Errorf("no sources error = %v", err)
	}

	ok := audiotest.NewSilentSource(8000, 1, 4)
	bad := audiotest.NewSilentSource(8000, 6, 4)
	after := audiotest.NewSilentSource(8000, 1, 4)
	cfg.Channels = 2
	if _, err := MixSources(cfg, ok, bad, after); !errors.Is(err, audio.ErrChannelMismatch) {
		t.Errorf("channel mismatch error = %v", err)
	}
	if !ok.Closed() || !bad.Closed() || !after.Closed() {
		t.Errorf("sources left open: %v %v %v", ok.Closed(), bad.Closed(), after.Closed())
	}
}

func TestMixSources_CloseError(t *testing.T) {
	t.Parallel()

	cfg := audio.BusConfig{Format: dmix.S16, Rate: 8000, Channels: 1, Frames: 4}
	pcm, err := MixSources(cfg,
		audiotest.NewConstantSource(8000, 1, 8, 0.5),
		audiotest.NewConstantSource(8000, 1, 8, 0.25).FailClose(),
	)
	if !errors.Is(err, audiotest.ErrMock) {
		t.Errorf("MixSources() error = %v, want close error", err)
	}
	if len(pcm) != 16 {
		t.Errorf("len(pcm) = %d, want the finished mix of 16 bytes", len(pcm))
	}
}

func TestMixSources_Stalled(t *testing.T) {
	t.Parallel()

	cfg := audio.BusConfig{Format: dmix.S16, Rate: 8000, Channels: 1, Frames: 4}
	if _, err := MixSources(cfg, stalled{}); !errors.Is(err, audio.ErrStalled) {
		t.Errorf("MixSources() error = %v, want ErrStalled", err)
	}
}

// stalled reports neither samples nor the end of the stream.
type stalled struct{}

func (stalled) SampleRate() int                    { return 8000 }
func (stalled) Channels() int                      { return 1 }
func (stalled) Close() error                       { return nil }
func (stalled) ReadSamples([]float32) (int, error) { return 0, nil }

func TestMixToWAV_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := audio.BusConfig{Format: dmix.S32, Rate: 22050, Channels: 2, Frames: 100}
	out := new(bytes.Buffer)
	err := MixToWAV(out, cfg,
		audiotest.NewConstantSource(22050, 2, 250, 0.5),
		audiotest.NewConstantSource(22050, 1, 250, -0.25),
	)
	if err != nil {
		t.Fatal(err)
	}

	src, err := wav.Decoder{}.Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if src.Channels() != 2 || src.SampleRate() != 22050 {
		t.Fatalf("layout = %d ch @ %d Hz", src.Channels(), src.SampleRate())
	}

	buf := make([]float32, 1000)
	n, _ := src.ReadSamples(buf)
	if n != 500 {
		t.Fatalf("read %d samples, want 500", n)
	}
	for i, v := range buf[:n] {
		if math.Abs(float64(v-0.25)) > 1e-5 {
			t.Fatalf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestResampleToMono16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      audio.Source
		rate     int
		wantLen  int
		wantBase int16
	}{
		{"already mono", audiotest.NewConstantSource(16000, 1, 16000, 0.5), 8000, 8000, 16383},
		{"stereo upsample", audiotest.NewConstantSource(8000, 2, 800, -0.5), 16000, 1600, -16383},
		{"silence", audiotest.NewSilentSource(44100, 2, 4410), 44100, 4410, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pcm16, rate, err := ResampleToMono16(tt.src, tt.rate, 512)
			if err != nil {
				t.Fatal(err)
			}
			if rate != tt.rate || len(pcm16) != tt.wantLen {
				t.Fatalf("got %d samples at %d Hz, want %d at %d", len(pcm16), rate, tt.wantLen, tt.rate)
			}
			for i, s := range pcm16 {
				if s != tt.wantBase {
					t.Fatalf("pcm16[%d] = %d, want %d", i, s, tt.wantBase)
				}
			}
		})
	}
}

func TestResampleToMono16_SourceError(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(8000, 1, 8000, 440).FailAt(1000)
	if _, _, err := ResampleToMono16(src, 8000, 256); !errors.Is(err, audiotest.ErrMock) {
		t.Errorf("ResampleToMono16() error = %v, want ErrMock", err)
	}
}

func BenchmarkMixSources(b *testing.B) {
	cfg := audio.BusConfig{Format: dmix.S16, Rate: 48000, Channels: 2, Frames: 1024}

	b.ReportAllocs()

	for b.Loop() {
		sources := make([]audio.Source, 4)
		for i := range sources {
			sources[i] = audiotest.NewSineSource(48000, 2, 48000, float64(220*(i+1)))
		}
		if _, err := MixSources(cfg, sources...); err != nil {
			b.Fatal(err)
		}
	}
}
