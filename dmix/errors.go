// SPDX-License-Identifier: EPL-2.0

package dmix

import "errors"

var (
	// ErrUnknownFormat is returned by ParseFormat for names it does not know.
	ErrUnknownFormat = errors.New("unknown sample format")
	// ErrMisaligned indicates a buffer, offset or step that breaks the
	// alignment required for atomic access to its cells.
	ErrMisaligned = errors.New("area is not aligned for atomic access")
	// ErrInvalidStep indicates a step smaller than one cell.
	ErrInvalidStep = errors.New("area step must be at least one cell wide")
	// ErrInvalidOffset indicates a negative first-cell offset.
	ErrInvalidOffset = errors.New("area offset must not be negative")
	// ErrShortArea indicates an area that cannot hold the requested positions.
	ErrShortArea = errors.New("area too short for requested positions")
)
