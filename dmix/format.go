// SPDX-License-Identifier: EPL-2.0

package dmix

import (
	"fmt"
	"strings"
)

// Format selects the encoding of destination and source cells.
type Format int

const (
	// S16 is 16-bit signed linear PCM in native byte order.
	S16 Format = iota
	// S32 carries 24-bit audio in a native 32-bit word, scaled by 256.
	S32
	// S24_3LE is packed 24-bit signed linear PCM, low byte first.
	// Bit 0 of every published cell is used as the first-writer flag.
	S24_3LE
)

var formatNames = map[Format]string{
	S16:     "s16",
	S32:     "s32",
	S24_3LE: "s24_3le",
}

var formatAliases = map[string]Format{
	"s16":     S16,
	"s16_le":  S16,
	"s32":     S32,
	"s32_le":  S32,
	"s24":     S24_3LE,
	"s24_3le": S24_3LE,
}

// ParseFormat resolves a format name such as "s16" or "s24_3le".
func ParseFormat(name string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Width is the size of one cell in bytes.
func (f Format) Width() int {
	switch f {
	case S16:
		return 2
	case S32:
		return 4
	case S24_3LE:
		return 3
	}
	return 0
}

// BitDepth is the container depth written to WAV headers.
func (f Format) BitDepth() int {
	return f.Width() * 8
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// align is the alignment a cell needs for the atomics used on it.
func (f Format) align() int {
	switch f {
	case S16:
		return 2
	case S32:
		return 4
	}
	return 1
}
