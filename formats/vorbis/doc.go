// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved as float32 at the file's own rate and
// channel count:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// Vorbis decodes to floats natively, so no integer scaling is involved.
package vorbis
