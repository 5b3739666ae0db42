// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// sync/atomic has no 8 or 16-bit operations. Sub-word cells are updated
// through the aligned 32-bit word that contains them, touching only the
// cell's bits so neighbouring cells written by other producers survive.

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// field returns the aligned word holding the n-byte field at p and the
// shift of the field's least significant bit inside the word's value.
func field(p unsafe.Pointer, n uintptr) (*uint32, uint) {
	off := uintptr(p) & 3
	w := (*uint32)(unsafe.Add(p, -int(off)))
	if littleEndian {
		return w, uint(off * 8)
	}
	return w, uint((4 - off - n) * 8)
}

// storeMasked replaces the bits selected by mask with bits.
func storeMasked(w *uint32, mask, bits uint32) {
	for {
		cur := atomic.LoadUint32(w)
		if atomic.CompareAndSwapUint32(w, cur, cur&^mask|bits&mask) {
			return
		}
	}
}

func load16(p unsafe.Pointer) uint16 {
	w, shift := field(p, 2)
	return uint16(atomic.LoadUint32(w) >> shift)
}

func store16(p unsafe.Pointer, v uint16) {
	w, shift := field(p, 2)
	storeMasked(w, 0xffff<<shift, uint32(v)<<shift)
}

// cas16 swaps the 16-bit cell at p from old to new.
func cas16(p unsafe.Pointer, old, new uint16) bool {
	w, shift := field(p, 2)
	mask := uint32(0xffff) << shift
	for {
		cur := atomic.LoadUint32(w)
		if uint16(cur>>shift) != old {
			return false
		}
		if atomic.CompareAndSwapUint32(w, cur, cur&^mask|uint32(new)<<shift) {
			return true
		}
	}
}

// testAndSetBit0 sets bit 0 of the byte at p and reports whether it was
// already set.
func testAndSetBit0(p unsafe.Pointer) bool {
	w, shift := field(p, 1)
	bit := uint32(1) << shift
	return atomic.OrUint32(w, bit)&bit != 0
}

func load8(p unsafe.Pointer) byte {
	w, shift := field(p, 1)
	return byte(atomic.LoadUint32(w) >> shift)
}

// store24 writes the low 24 bits of v at p, low byte first. Bytes sharing
// a word are written together; a cell straddling two words takes two
// stores, lowest address first.
func store24(p unsafe.Pointer, v uint32) {
	for i := 0; i < 3; {
		q := unsafe.Add(p, i)
		w, _ := field(q, 1)
		n := min(3-i, 4-int(uintptr(q)&3))
		var mask, bits uint32
		for j := range n {
			_, shift := field(unsafe.Add(q, j), 1)
			mask |= 0xff << shift
			bits |= (v >> (8 * uint(i+j)) & 0xff) << shift
		}
		storeMasked(w, mask, bits)
		i += n
	}
}

// load24 reads a sign-extended 24-bit little-endian value at p.
func load24(p unsafe.Pointer) int32 {
	b0 := load8(p)
	b1 := load8(unsafe.Add(p, 1))
	b2 := load8(unsafe.Add(p, 2))
	return int32(int8(b2))<<16 | int32(b1)<<8 | int32(b0)
}
