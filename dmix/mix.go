// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"sync/atomic"
)

// MixAreas16 folds size S16 source samples into the shared accumulator and
// publishes the saturated sums to dst. See Mix.
func MixAreas16(size int, dst, src, sum Area) {
	mixAreas(s16Codec{}, size, dst, src, sum)
}

// MixAreas32 folds size S32 (24-bit resolution) source samples. The
// accumulator holds unscaled 24-bit values. See Mix.
func MixAreas32(size int, dst, src, sum Area) {
	mixAreas(s32Codec{}, size, dst, src, sum)
}

// MixAreas24 folds size packed 24-bit source samples. Every published
// cell has bit 0 set. See Mix.
func MixAreas24(size int, dst, src, sum Area) {
	mixAreas(s24Codec{}, size, dst, src, sum)
}

// Mix folds size samples from src into sum and publishes the mix to dst,
// using the routine for format f.
//
// Mix may be called at the same time from any number of goroutines (or
// processes sharing the memory) on overlapping dst and sum areas. It
// never blocks: concurrent folds only cause extra publish retries.
// Starvation under pathological contention is possible and not handled.
//
// Preconditions, not checked here:
//   - the three areas hold at least size cells (see Area.Check);
//   - dst and sum cells for a position were cleared together (Clear) and
//     no Clear runs while a fold is in flight on them;
//   - src is private to the caller.
//
// Unknown formats are ignored.
func Mix(f Format, size int, dst, src, sum Area) {
	switch f {
	case S16:
		MixAreas16(size, dst, src, sum)
	case S32:
		MixAreas32(size, dst, src, sum)
	case S24_3LE:
		MixAreas24(size, dst, src, sum)
	}
}

func mixAreas[C codec](c C, size int, dst, src, sum Area) {
	d, s, a := dst.first, src.first, sum.first
	for range max(size, 0) {
		dp, acc := dst.at(d), (*int32)(sum.at(a))

		sample := c.load(src.at(s))
		old := atomic.LoadInt32(acc)
		if c.markFirst(dp) {
			// First writer of the cycle: cancel whatever the accumulator
			// still holds.
			sample -= old
		}
		atomic.AddInt32(acc, sample)

		for {
			v := atomic.LoadInt32(acc)
			c.publish(dp, v)
			if atomic.LoadInt32(acc) == v {
				break
			}
		}

		d += dst.step
		s += src.step
		a += sum.step
	}
}

// Clear resets size destination cells to their clear state and zeroes the
// matching accumulator cells. It is the consumer side of a cycle and must
// not overlap any Mix on the same cells.
func Clear(f Format, size int, dst, sum Area) {
	switch f {
	case S16:
		clearAreas(s16Codec{}, size, dst, sum)
	case S32:
		clearAreas(s32Codec{}, size, dst, sum)
	case S24_3LE:
		clearAreas(s24Codec{}, size, dst, sum)
	}
}

func clearAreas[C codec](c C, size int, dst, sum Area) {
	d, a := dst.first, sum.first
	for range max(size, 0) {
		c.reset(dst.at(d))
		atomic.StoreInt32((*int32)(sum.at(a)), 0)
		d += dst.step
		a += sum.step
	}
}
