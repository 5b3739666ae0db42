// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"encoding/binary"
	"sync"
	"testing"
	"unsafe"
)

func ptr(buf []byte, off int) unsafe.Pointer {
	return unsafe.Pointer(&buf[off])
}

func TestStore16_PreservesNeighbour(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(4)
	binary.NativeEndian.PutUint16(buf[0:], 0xaaaa)
	binary.NativeEndian.PutUint16(buf[2:], 0xbbbb)

	store16(ptr(buf, 2), 0x1234)

	if got := binary.NativeEndian.Uint16(buf[0:]); got != 0xaaaa {
		t.Errorf("neighbour = %#x, want 0xaaaa", got)
	}
	if got := binary.NativeEndian.Uint16(buf[2:]); got != 0x1234 {
		t.Errorf("cell = %#x, want 0x1234", got)
	}
	if got := load16(ptr(buf, 2)); got != 0x1234 {
		t.Errorf("load16() = %#x, want 0x1234", got)
	}
}

func TestCas16(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(4)
	binary.NativeEndian.PutUint16(buf[0:], 7)

	if cas16(ptr(buf, 0), 0, 1) {
		t.Fatal("cas16 succeeded on a non-matching cell")
	}
	if !cas16(ptr(buf, 2), 0, 1) {
		t.Fatal("cas16 failed on a clear cell")
	}
	if cas16(ptr(buf, 2), 0, 1) {
		t.Fatal("cas16 succeeded twice")
	}
	if got := binary.NativeEndian.Uint16(buf[0:]); got != 7 {
		t.Errorf("neighbour = %d, want 7", got)
	}
	if got := binary.NativeEndian.Uint16(buf[2:]); got != 1 {
		t.Errorf("cell = %d, want 1", got)
	}
}

func TestStore16_ConcurrentHalves(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(4)
	const rounds = 2000

	var wg sync.WaitGroup
	for half := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				store16(ptr(buf, half*2), uint16(i+half))
			}
		}()
	}
	wg.Wait()

	if got := binary.NativeEndian.Uint16(buf[0:]); got != rounds-1 {
		t.Errorf("low half = %d, want %d", got, rounds-1)
	}
	if got := binary.NativeEndian.Uint16(buf[2:]); got != rounds {
		t.Errorf("high half = %d, want %d", got, rounds)
	}
}

func TestStore24_StraddlesWords(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(8)
	for i := range buf {
		buf[i] = 0xee
	}

	// Bytes 3..5 cross from the first word into the second.
	store24(ptr(buf, 3), 0x00abcdef)

	want := []byte{0xee, 0xee, 0xee, 0xef, 0xcd, 0xab, 0xee, 0xee}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %#x, want %#x", i, buf[i], want[i])
		}
	}
	if got := load24(ptr(buf, 3)); got != -0x543211 {
		t.Errorf("load24() = %#x, want %#x", got, -0x543211)
	}
}

func TestTestAndSetBit0(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(4)
	buf[1] = 0x80

	if testAndSetBit0(ptr(buf, 1)) {
		t.Fatal("bit reported set on first call")
	}
	if !testAndSetBit0(ptr(buf, 1)) {
		t.Fatal("bit reported clear on second call")
	}
	if buf[1] != 0x81 {
		t.Errorf("byte = %#x, want 0x81", buf[1])
	}
	if buf[0] != 0 || buf[2] != 0 || buf[3] != 0 {
		t.Errorf("neighbours touched: % x", buf)
	}
}
