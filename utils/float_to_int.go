// SPDX-License-Identifier: EPL-2.0

package utils

import "github.com/ik5/dmixpbx/dmix"

const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
)

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	} else if x < -1 {
		return -1
	}
	return x
}

// Float32ToInt16 scales x in [-1, 1] to 16-bit PCM. Out of range input is
// clamped.
func Float32ToInt16(x float32) int16 {
	// Use 32767 for positive max to avoid overflow
	return int16(clampUnit(x) * maxInt16)
}

// Float32ToInt24 scales x in [-1, 1] to a 24-bit sample.
func Float32ToInt24(x float32) int32 {
	return int32(clampUnit(x) * maxInt24)
}

// Float32ToS32 scales x to 24-bit resolution inside a 32-bit container.
func Float32ToS32(x float32) int32 {
	return Float32ToInt24(x) << 8
}

// Float32ToSample returns the raw source container value of x for format
// f, ready for dmix.EncodeSource.
func Float32ToSample(f dmix.Format, x float32) int32 {
	switch f {
	case dmix.S16:
		return int32(Float32ToInt16(x))
	case dmix.S32:
		return Float32ToS32(x)
	case dmix.S24_3LE:
		return Float32ToInt24(x)
	}
	return 0
}

// SampleToFloat32 maps a value returned by dmix.Decode back to [-1, 1].
func SampleToFloat32(f dmix.Format, v int32) float32 {
	switch f {
	case dmix.S16:
		return float32(v) / 32768.0
	case dmix.S32, dmix.S24_3LE:
		return float32(v) / 8388608.0
	}
	return 0
}
