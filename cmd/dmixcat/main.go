// SPDX-License-Identifier: EPL-2.0

// Command dmixcat mixes audio files onto one bus and writes a WAV.
//
// Usage:
//
//	dmixcat [flags] <command> [args]
//
// Commands:
//
//	mix      - mix input files into a WAV file
//	formats  - list the input formats that can be decoded
//
// Example:
//
//	dmixcat mix -o out.wav --format s24_3le --rate 44100 a.wav b.mp3 c.ogg
package main

import (
	"fmt"
	"os"

	"github.com/ik5/dmixpbx/cmd/dmixcat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
