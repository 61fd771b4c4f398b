//go:build !unix && !windows

// Package bytesource provides reference ByteSource implementations: a
// "mapped" file source (a real memory map on unix, a full read into memory
// on windows and other platforms), a plain os.File ReadAt source, and an
// in-memory source
// for tests.
package bytesource

import "os"

// mmap reads the entire file when mmap is not available.
func mmap(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
