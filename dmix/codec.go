// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

const (
	maxS16 = 1<<15 - 1
	minS16 = -1 << 15
	maxS24 = 0x7fffff
	minS24 = -0x800000
	// Packed 24-bit saturates symmetrically; -0x800000 would need the
	// flag bit cleared to stay in range.
	minS24Packed = -0x7fffff
)

// codec is the per-format policy plugged into the mixing loop.
type codec interface {
	// load decodes a private source cell into the accumulator domain.
	load(src unsafe.Pointer) int32
	// markFirst flags the destination cell and reports whether this call
	// found it clear, which makes the caller the cycle's first writer.
	markFirst(dst unsafe.Pointer) bool
	// publish saturates v and stores its encoding in the destination cell.
	publish(dst unsafe.Pointer, v int32)
	// reset returns the destination cell to its clear state.
	reset(dst unsafe.Pointer)
}

func clamp(v, lo, hi int32) int32 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

type s16Codec struct{}

func (s16Codec) load(p unsafe.Pointer) int32 { return int32(*(*int16)(p)) }

func (s16Codec) markFirst(p unsafe.Pointer) bool { return cas16(p, 0, 1) }

func (s16Codec) publish(p unsafe.Pointer, v int32) {
	store16(p, uint16(int16(clamp(v, minS16, maxS16))))
}

func (s16Codec) reset(p unsafe.Pointer) { store16(p, 0) }

// s32Codec keeps the accumulator in the unscaled 24-bit domain. The shift
// by 8 happens on load and on publish only.
type s32Codec struct{}

func (s32Codec) load(p unsafe.Pointer) int32 { return *(*int32)(p) >> 8 }

func (s32Codec) markFirst(p unsafe.Pointer) bool {
	return atomic.CompareAndSwapInt32((*int32)(p), 0, 1)
}

func (s32Codec) publish(p unsafe.Pointer, v int32) {
	atomic.StoreInt32((*int32)(p), clamp(v, minS24, maxS24)<<8)
}

func (s32Codec) reset(p unsafe.Pointer) { atomic.StoreInt32((*int32)(p), 0) }

// s24Codec steals bit 0 of every cell for the flag, so published samples
// are always odd.
type s24Codec struct{}

func (s24Codec) load(p unsafe.Pointer) int32 {
	b := (*[3]byte)(p)
	return int32(int8(b[2]))<<16 | int32(b[1])<<8 | int32(b[0])
}

func (s24Codec) markFirst(p unsafe.Pointer) bool { return !testAndSetBit0(p) }

func (s24Codec) publish(p unsafe.Pointer, v int32) {
	store24(p, uint32(clamp(v, minS24Packed, maxS24))|1)
}

func (s24Codec) reset(p unsafe.Pointer) { store24(p, 0) }

// Saturate clamps an accumulator value to the range f can publish. For
// S32 the result is in the unscaled 24-bit domain. The S24_3LE flag bit is
// not applied; see Encode.
func Saturate(f Format, v int32) int32 {
	switch f {
	case S16:
		return clamp(v, minS16, maxS16)
	case S32:
		return clamp(v, minS24, maxS24)
	case S24_3LE:
		return clamp(v, minS24Packed, maxS24)
	}
	return v
}

// Encode writes the published form of accumulator value v into cell,
// exactly as a producer would, but without atomics. It is meant for
// preparing source buffers and for tests.
func Encode(f Format, cell []byte, v int32) {
	switch f {
	case S16:
		binary.NativeEndian.PutUint16(cell, uint16(int16(Saturate(f, v))))
	case S32:
		binary.NativeEndian.PutUint32(cell, uint32(Saturate(f, v)<<8))
	case S24_3LE:
		u := uint32(Saturate(f, v)) | 1
		cell[0], cell[1], cell[2] = byte(u), byte(u>>8), byte(u>>16)
	}
}

// EncodeSource writes sample v into a source cell. Unlike Encode it does
// not set the S24_3LE flag bit and for S32 it expects v already scaled by
// 256. Values outside the container are truncated.
func EncodeSource(f Format, cell []byte, v int32) {
	switch f {
	case S16:
		binary.NativeEndian.PutUint16(cell, uint16(int16(v)))
	case S32:
		binary.NativeEndian.PutUint32(cell, uint32(v))
	case S24_3LE:
		cell[0], cell[1], cell[2] = byte(v), byte(v>>8), byte(v>>16)
	}
}

// Load reads destination cell i of a with atomic loads, so it may run
// while producers are still publishing. It returns the same domain as
// Decode. An S24_3LE cell that straddles two words is read one byte at a
// time and can mix bytes of two publishes.
func Load(f Format, a Area, i int) int32 {
	p := a.at(a.first + i*a.step)
	switch f {
	case S16:
		return int32(int16(load16(p)))
	case S32:
		return atomic.LoadInt32((*int32)(p)) >> 8
	case S24_3LE:
		return load24(p)
	}
	return 0
}

// Decode reads a cell. S32 cells are shifted back to the 24-bit domain;
// S24_3LE cells are returned raw, flag bit included.
func Decode(f Format, cell []byte) int32 {
	switch f {
	case S16:
		return int32(int16(binary.NativeEndian.Uint16(cell)))
	case S32:
		return int32(binary.NativeEndian.Uint32(cell)) >> 8
	case S24_3LE:
		return int32(int8(cell[2]))<<16 | int32(cell[1])<<8 | int32(cell[0])
	}
	return 0
}
