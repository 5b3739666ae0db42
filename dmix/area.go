// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"fmt"
	"iter"
	"unsafe"
)

// sumWidth is the size of one accumulator cell (int32).
const sumWidth = 4

// Area describes a strided run of cells inside a caller owned buffer.
// Cell i starts at byte first+i*step. Interleaved layouts use
// step = channels*width and first = channel*width.
type Area struct {
	buf   []byte
	first int
	step  int
	width int
}

// NewArea describes destination or source cells of format f.
//
// The buffer must start on a 4-byte boundary and its length must be a
// multiple of 4, so every 32-bit word that contains a cell lies inside it.
// first and step must keep each cell aligned for f (2 bytes for S16,
// 4 bytes for S32, any byte for S24_3LE). Use NewBuffer to allocate
// suitable memory.
func NewArea(buf []byte, first, step int, f Format) (Area, error) {
	if !f.Valid() {
		return Area{}, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	return newArea(buf, first, step, f.Width(), f.align())
}

// NewSumArea describes int32 accumulator cells.
func NewSumArea(buf []byte, first, step int) (Area, error) {
	return newArea(buf, first, step, sumWidth, sumWidth)
}

func newArea(buf []byte, first, step, width, align int) (Area, error) {
	if first < 0 {
		return Area{}, ErrInvalidOffset
	}
	if step < width {
		return Area{}, fmt.Errorf("%w: step %d, width %d", ErrInvalidStep, step, width)
	}
	if len(buf)%4 != 0 {
		return Area{}, fmt.Errorf("%w: buffer length %d", ErrMisaligned, len(buf))
	}
	if len(buf) > 0 && uintptr(unsafe.Pointer(unsafe.SliceData(buf)))%4 != 0 {
		return Area{}, fmt.Errorf("%w: buffer base", ErrMisaligned)
	}
	if first%align != 0 || step%align != 0 {
		return Area{}, fmt.Errorf("%w: first %d, step %d, alignment %d", ErrMisaligned, first, step, align)
	}
	return Area{buf: buf, first: first, step: step, width: width}, nil
}

// NewBuffer allocates n bytes (rounded up to a multiple of 4) on a 4-byte
// boundary.
func NewBuffer(n int) []byte {
	words := make([]uint32, (n+3)/4)
	if len(words) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*4)
}

// Cells is the number of whole cells the area can address.
func (a Area) Cells() int {
	if a.step <= 0 || len(a.buf) < a.first+a.width {
		return 0
	}
	return (len(a.buf)-a.first-a.width)/a.step + 1
}

// Check returns ErrShortArea when size positions would run past the buffer.
func (a Area) Check(size int) error {
	if size > a.Cells() {
		return fmt.Errorf("%w: %d positions, %d cells", ErrShortArea, size, a.Cells())
	}
	return nil
}

// Step is the distance in bytes between consecutive cells.
func (a Area) Step() int { return a.step }

// First is the byte offset of cell 0.
func (a Area) First() int { return a.first }

// Cell returns the bytes of cell i.
func (a Area) Cell(i int) []byte {
	off := a.first + i*a.step
	return a.buf[off : off+a.width]
}

// at returns a pointer to the cell at byte offset off.
func (a Area) at(off int) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(a.buf)), off)
}

// Position is one step of the iterator: the index and the byte offsets of
// the destination, source and accumulator cells inside their buffers.
type Position struct {
	Index int
	Dst   int
	Src   int
	Sum   int
}

// Positions walks size positions across the three areas, advancing each
// cursor by its own step. The mixing routines use the same cursor
// arithmetic. A size of zero or less yields nothing.
func Positions(size int, dst, src, sum Area) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		d, s, a := dst.first, src.first, sum.first
		for i := range max(size, 0) {
			if !yield(Position{Index: i, Dst: d, Src: s, Sum: a}) {
				return
			}
			d += dst.step
			s += src.step
			a += sum.step
		}
	}
}
