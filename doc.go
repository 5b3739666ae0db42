// SPDX-License-Identifier: EPL-2.0

// Package dmixpbx mixes any number of audio streams into one shared buffer
// without locks.
//
// The work is split over a few packages:
//   - dmix: the lock-free fold of one source area into shared destination
//     and accumulator memory, for S16, S32 (24-bit in 32) and packed
//     S24_3LE samples;
//   - audio: sources, the shared Bus, per-stream producers and the Engine
//     that runs one period at a time;
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders, and
//     WAV output for the mixed bus;
//   - utils: float to PCM conversions.
//
// # Quick Start
//
//	reg := dmixpbx.NewRegistry()
//	var sources []audio.Source
//	for _, path := range paths {
//	    dec, _ := reg.Lookup(path)
//	    f, _ := os.Open(path)
//	    src, _ := dec.Decode(f)
//	    sources = append(sources, src)
//	}
//
//	cfg := audio.BusConfig{Format: dmix.S16, Rate: 48000, Channels: 2, Frames: 1024}
//	out, _ := os.Create("mix.wav")
//	err := dmixpbx.MixToWAV(out, cfg, sources...)
//
// Every source is resampled and fitted to the bus layout, then all of them
// fold their periods into the bus concurrently. Sums that leave the sample
// range saturate.
//
// # Shared memory
//
// The dmix routines work on plain byte slices, so the bus may also live in
// memory shared between processes (audio.NewBusOn over a mapping). Every
// participant must agree on the layout and on who clears each period.
package dmixpbx
