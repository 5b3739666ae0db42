// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/dmixpbx/dmix"
)

const headerSize = 44

// header builds a canonical 44 byte PCM header for dataSize bytes of data.
func header(sampleRate, channels, bitsPerSample int, dataSize uint32) []byte {
	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	h := make([]byte, headerSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], formatPCM)
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], uint16(bitsPerSample))

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)
	return h
}

// WriteWAV writes interleaved bus memory of format f as a PCM WAV. It
// needs no seeking, so w may be a pipe. S16 is written as 16-bit, S32 as
// 32-bit and S24_3LE as packed 24-bit, flag bit included.
func WriteWAV(w io.Writer, sampleRate, channels int, f dmix.Format, pcm []byte) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	width := f.Width()
	pcm = pcm[:len(pcm)/(width*channels)*width*channels]

	if _, err := w.Write(header(sampleRate, channels, f.BitDepth(), uint32(len(pcm)))); err != nil {
		return fmt.Errorf("%w", err)
	}
	if f == dmix.S24_3LE {
		if _, err := w.Write(pcm); err != nil {
			return fmt.Errorf("%w", err)
		}
		return nil
	}

	// S16 and S32 cells are native endian
	const chunkSize = 8192
	buf := make([]byte, min(len(pcm), chunkSize))
	for i := 0; i < len(pcm); i += chunkSize {
		chunk := pcm[i:min(i+chunkSize, len(pcm))]
		out := buf[:len(chunk)]
		for j := 0; j < len(chunk); j += width {
			if width == 2 {
				binary.LittleEndian.PutUint16(out[j:], binary.NativeEndian.Uint16(chunk[j:]))
			} else {
				binary.LittleEndian.PutUint32(out[j:], binary.NativeEndian.Uint32(chunk[j:]))
			}
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.NativeEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return WriteWAV(w, sampleRate, 1, dmix.S16, pcm)
}
