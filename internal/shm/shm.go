// SPDX-License-Identifier: EPL-2.0

//go:build unix

// Package shm maps bus memory from a file so that mixers in different
// processes can share one destination and accumulator.
package shm

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var ErrInvalidSize = errors.New("shared region size must be positive")

// Region is a MAP_SHARED view of a file.
type Region struct {
	file *os.File
	data []byte
	size int
}

// Open maps size bytes of path, creating and growing the file when
// needed. The mapping is rounded up to whole pages; Bytes still reports
// size bytes. Every Region over the same path sees the same memory.
func Open(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm open: %w", err)
	}

	page := unix.Getpagesize()
	length := (size + page - 1) / page * page

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm stat: %w", err)
	}
	if fi.Size() < int64(length) {
		if err := f.Truncate(int64(length)); err != nil {
			f.Close()
			return nil, fmt.Errorf("shm truncate: %w", err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm mmap: %w", err)
	}

	return &Region{file: f, data: data, size: size}, nil
}

// Bytes returns the mapped memory. It is page aligned and therefore
// suitable for dmix areas.
func (r *Region) Bytes() []byte { return r.data[:r.size] }

// Sync flushes the mapping to the backing file.
func (r *Region) Sync() error {
	if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("shm msync: %w", err)
	}
	return nil
}

// Close unmaps the region and closes the file. The file is left in place.
func (r *Region) Close() error {
	var errs []error
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			errs = append(errs, fmt.Errorf("shm munmap: %w", err))
		}
		r.data = nil
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("shm close: %w", err))
	}
	return errors.Join(errs...)
}
