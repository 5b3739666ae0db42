// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// 16 and 24-bit big-endian PCM are supported. go-audio needs to seek, so
// readers without Seek are buffered in memory first.
//
//	src, err := aiff.Decoder{}.Decode(file)
package aiff
