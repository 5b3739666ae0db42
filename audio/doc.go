// SPDX-License-Identifier: EPL-2.0

// Package audio turns decoded sources into mixed bus periods.
//
// # Sources
//
// A Source yields interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Decoders in the formats packages return Sources, and the Registry maps
// file extensions to decoders. Resampler, MonoMixer and Spreader wrap a
// Source to change its rate or layout; Fit picks the right chain for a bus.
//
// # Bus, streams and the engine
//
// A Bus holds the shared memory of one period: the destination in the bus
// sample format and a 32-bit accumulator per sample, both interleaved. Each
// Stream reads one period from its Source, encodes it into a private buffer
// and folds it into the Bus with dmix.Mix, one channel area at a time.
// Streams never take a lock; the dmix first-writer protocol makes the
// concurrent folds agree.
//
// The Engine runs the cycle:
//
//	bus, _ := audio.NewBus(audio.BusConfig{Format: dmix.S16, Rate: 48000, Channels: 2, Frames: 1024})
//	eng := audio.NewEngine(bus, sink, audio.WithLogger(logger))
//	eng.Add(stream)
//	periods, err := eng.Run(ctx)
//
// Every period it clears the bus, runs all live streams concurrently,
// waits for them, and passes the published bytes to the Sink. The longest
// stream decides how many frames a period carries. Run returns when all
// streams are exhausted.
//
// # End of stream
//
// ReadSamples and MixPeriod may return the last data together with io.EOF,
// so always consume n before looking at err.
package audio
