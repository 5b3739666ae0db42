// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"errors"
	"testing"
)

func TestNewArea_Validation(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(64)

	tests := []struct {
		name    string
		buf     []byte
		first   int
		step    int
		f       Format
		wantErr error
	}{
		{name: "s16 mono", buf: buf, first: 0, step: 2, f: S16},
		{name: "s16 stereo right", buf: buf, first: 2, step: 4, f: S16},
		{name: "s16 odd offset", buf: buf, first: 1, step: 4, f: S16, wantErr: ErrMisaligned},
		{name: "s32 unaligned step", buf: buf, first: 0, step: 6, f: S32, wantErr: ErrMisaligned},
		{name: "s24 packed", buf: buf, first: 3, step: 6, f: S24_3LE},
		{name: "negative offset", buf: buf, first: -2, step: 2, f: S16, wantErr: ErrInvalidOffset},
		{name: "step smaller than cell", buf: buf, first: 0, step: 2, f: S24_3LE, wantErr: ErrInvalidStep},
		{name: "zero step", buf: buf, first: 0, step: 0, f: S16, wantErr: ErrInvalidStep},
		{name: "length not whole words", buf: buf[:6], first: 0, step: 2, f: S16, wantErr: ErrMisaligned},
		{name: "base not word aligned", buf: buf[2:6], first: 0, step: 2, f: S16, wantErr: ErrMisaligned},
		{name: "unknown format", buf: buf, first: 0, step: 2, f: Format(9), wantErr: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewArea(tt.buf, tt.first, tt.step, tt.f)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewArea() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewArea() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSumArea_Validation(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(32)
	if _, err := NewSumArea(buf, 0, 4); err != nil {
		t.Fatalf("NewSumArea() error = %v", err)
	}
	if _, err := NewSumArea(buf, 2, 8); !errors.Is(err, ErrMisaligned) {
		t.Errorf("NewSumArea(first=2) error = %v, want ErrMisaligned", err)
	}
	if _, err := NewSumArea(buf, 0, 2); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("NewSumArea(step=2) error = %v, want ErrInvalidStep", err)
	}
}

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{9, 12},
	}

	for _, tt := range tests {
		buf := NewBuffer(tt.n)
		if len(buf) != tt.want {
			t.Errorf("len(NewBuffer(%d)) = %d, want %d", tt.n, len(buf), tt.want)
		}
		if tt.want > 0 {
			if _, err := NewArea(buf, 0, 3, S24_3LE); err != nil {
				t.Errorf("NewBuffer(%d) not usable: %v", tt.n, err)
			}
		}
	}
}

func TestArea_CellsAndCheck(t *testing.T) {
	t.Parallel()

	// 4 stereo S24_3LE frames: 24 bytes.
	buf := NewBuffer(24)
	left, err := NewArea(buf, 0, 6, S24_3LE)
	if err != nil {
		t.Fatal(err)
	}
	right, err := NewArea(buf, 3, 6, S24_3LE)
	if err != nil {
		t.Fatal(err)
	}

	if left.Cells() != 4 || right.Cells() != 4 {
		t.Errorf("Cells() = %d/%d, want 4/4", left.Cells(), right.Cells())
	}
	if err := right.Check(4); err != nil {
		t.Errorf("Check(4) error = %v", err)
	}
	if err := right.Check(5); !errors.Is(err, ErrShortArea) {
		t.Errorf("Check(5) error = %v, want ErrShortArea", err)
	}
	if got := len(right.Cell(3)); got != 3 {
		t.Errorf("len(Cell(3)) = %d, want 3", got)
	}
	if right.First() != 3 || right.Step() != 6 {
		t.Errorf("First/Step = %d/%d, want 3/6", right.First(), right.Step())
	}

	var empty Area
	if empty.Cells() != 0 {
		t.Errorf("zero Area Cells() = %d, want 0", empty.Cells())
	}
}

func TestPositions_Strided(t *testing.T) {
	t.Parallel()

	dst, _ := NewArea(NewBuffer(64), 2, 8, S16)
	src, _ := NewArea(NewBuffer(64), 0, 6, S16)
	sum, _ := NewSumArea(NewBuffer(64), 4, 12)

	var got []Position
	for p := range Positions(4, dst, src, sum) {
		got = append(got, p)
	}

	want := []Position{
		{Index: 0, Dst: 2, Src: 0, Sum: 4},
		{Index: 1, Dst: 10, Src: 6, Sum: 16},
		{Index: 2, Dst: 18, Src: 12, Sum: 28},
		{Index: 3, Dst: 26, Src: 18, Sum: 40},
	}

	if len(got) != len(want) {
		t.Fatalf("Positions visited %d triples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %+v, want %+v", i, got[i], want[i])
		}
		if i > 0 && (got[i].Dst <= got[i-1].Dst || got[i].Src <= got[i-1].Src || got[i].Sum <= got[i-1].Sum) {
			t.Errorf("position %d not ascending: %+v after %+v", i, got[i], got[i-1])
		}
	}
}

func TestPositions_EmptyAndEarlyStop(t *testing.T) {
	t.Parallel()

	a, _ := NewArea(NewBuffer(16), 0, 2, S16)
	s, _ := NewSumArea(NewBuffer(32), 0, 4)

	for range Positions(0, a, a, s) {
		t.Fatal("size 0 must not yield")
	}
	for range Positions(-3, a, a, s) {
		t.Fatal("negative size must not yield")
	}

	n := 0
	for p := range Positions(8, a, a, s) {
		n++
		if p.Index == 2 {
			break
		}
	}
	if n != 3 {
		t.Errorf("break after index 2 visited %d positions, want 3", n)
	}
}
