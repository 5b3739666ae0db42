// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrUnsupportedFormat = errors.New("no decoder registered for format")
	ErrChannelMismatch   = errors.New("source channels cannot be fitted to bus")
	ErrInvalidBusConfig  = errors.New("invalid bus configuration")
	ErrNoStreams         = errors.New("engine has no streams")
	ErrStalled           = errors.New("no stream produced frames")
)
