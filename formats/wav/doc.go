// SPDX-License-Identifier: EPL-2.0

// Package wav reads PCM WAV files and writes mixed bus output as WAV.
//
// Decoding and the seekable Encoder are built on github.com/go-audio/wav.
// WriteWAV writes a canonical 44 byte header followed by the data, which
// works on pipes and other writers that cannot seek.
//
// # Supported Formats
//
//   - PCM and WAVE_FORMAT_EXTENSIBLE, 16, 24 and 32 bits per sample
//   - any channel count and sample rate
//
// # Decoding
//
//	file, _ := os.Open("voice.wav")
//	source, err := wav.Decoder{}.Decode(file)
//
// Readers that cannot seek are buffered in memory first.
//
// # Writing bus output
//
// Encoder implements audio.Sink, so an engine can write straight to a file:
//
//	f, _ := os.Create("mix.wav")
//	enc, _ := wav.NewEncoder(f, cfg.Rate, cfg.Channels, cfg.Format)
//	eng := audio.NewEngine(bus, enc)
//	_, err := eng.Run(ctx)
//	_ = enc.Close()
//
// S16 buses are written as 16-bit samples, S32 as 32-bit and S24_3LE as
// packed 24-bit. The S24_3LE flag bit stays in the output; it is below
// one step of 24-bit resolution.
package wav
