//go:build windows

package bytesource

import (
	"os"
)

// mmap reads the file at path into memory. Windows file mapping requires
// more ceremony (CreateFileMapping/MapViewOfFile) than this module's
// read-only needs justify; a single bulk read is simpler and the resulting
// []byte is used identically by MappedSource either way.
func mmap(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
