// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields 16-bit stereo at the file's sample rate;
// audio.Fit (or a Stream) brings it to the bus layout:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	stream, err := audio.NewStream("music", src, busConfig)
package mp3
