// SPDX-License-Identifier: EPL-2.0

// Package dmix mixes independent PCM streams into one shared buffer
// without locks.
//
// Several producers (goroutines, or processes mapping the same memory)
// write into overlapping positions of a destination buffer. Each position
// ends up holding the saturated sum of every producer's contribution, and
// no producer ever publishes a torn value.
//
// # Memory Layout
//
// Every call works on three strided areas:
//
//   - dst: the shared, published mix. It also carries the first-writer flag.
//   - src: the caller's private samples.
//   - sum: the shared int32 accumulator holding the exact running sum.
//
// Areas are described with NewArea and NewSumArea:
//
//	dst, _ := dmix.NewArea(out, 0, 2*2, dmix.S16) // left channel of stereo S16
//	src, _ := dmix.NewArea(in, 0, 2*2, dmix.S16)
//	sum, _ := dmix.NewSumArea(acc, 0, 2*4)
//	dmix.MixAreas16(frames, dst, src, sum)
//
// # Protocol
//
// For each position a producer:
//
//  1. reads its sample and the current accumulator value;
//  2. tries to flag the destination cell; if the cell was clear it is the
//     first writer of the cycle and subtracts the accumulator value it read,
//     discarding any residue left from a previous cycle;
//  3. adds the sample to the accumulator atomically;
//  4. publishes: reads the accumulator, stores its saturated encoding to
//     dst, and re-reads the accumulator, retrying until nothing changed.
//
// The flag lives in the destination cell. For S16 and S32 a clear cell is
// zero and the first writer swaps it to 1 before publishing over it. For
// S24_3LE the flag is bit 0 of the lowest byte, so every published packed
// sample is odd: one bit of precision is given up.
//
// # Formats
//
//   - S16: saturates to [-32768, 32767].
//   - S32: 24-bit audio scaled by 256. Sources are shifted right by 8 before
//     folding, the accumulator stays unscaled, and publish clamps to
//     [-0x800000, 0x7fffff] before shifting left by 8.
//   - S24_3LE: saturates to [-0x7fffff, 0x7fffff], sets bit 0 and stores three
//     bytes, low byte first.
//
// # Cycles
//
// A consumer calls Clear between cycles, when no producer is folding into
// the cleared cells. A Clear that races an in-flight fold makes the
// accumulator drift; this is a precondition, not something dmix detects.
//
// For S16 and S32 a cell whose sum returns to exactly zero reads as clear
// again, and the next producer subtracts the accumulator. That is harmless
// while the accumulator really is zero, but a fold landing between that
// zero publish and the next read is lost.
//
// # Concurrency
//
// Only single-word atomics are used: add, compare-and-swap and or. 8 and
// 16-bit cells are updated through a masked compare-and-swap on their
// containing 32-bit word, which is why buffers must be 4-byte aligned and
// sized in whole words (NewBuffer). The publish loop never blocks; heavy
// contention only costs retries. The retries are not capped, so a producer
// can in principle be starved by a steady stream of folds on the same cell.
package dmix
