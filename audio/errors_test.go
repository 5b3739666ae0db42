// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrInvalidDstSize(t *testing.T) {
	t.Parallel()

	expectedMsg := "dst size must be multiple of channels"
	if ErrInvalidDstSize.Error() != expectedMsg {
		t.Errorf("ErrInvalidDstSize.Error() = %q, want %q", ErrInvalidDstSize.Error(), expectedMsg)
	}
}

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	all := []error{
		ErrInvalidDstSize,
		ErrUnsupportedFormat,
		ErrChannelMismatch,
		ErrInvalidBusConfig,
		ErrNoStreams,
	}

	for i, a := range all {
		wrapped := fmt.Errorf("context: %w", a)
		for j, b := range all {
			if got := errors.Is(wrapped, b); got != (i == j) {
				t.Errorf("errors.Is(%q, %q) = %v", wrapped, b, got)
			}
		}
	}
}
