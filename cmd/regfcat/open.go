package main

import (
	"context"
	"fmt"

	"github.com/cerata/regf/cmd/regfcat/logger"
	"github.com/cerata/regf/internal/bytesource"
	"github.com/cerata/regf/pkg/regf"
)

// openHive maps a path on disk to an open *regf.Hive, preferring a
// memory-mapped ByteSource and falling back to plain ReadAt-based access
// when mapping the file fails (e.g. on some network filesystems).
func openHive(ctx context.Context, path string) (*regf.Hive, error) {
	src, err := bytesource.OpenMapped(path)
	if err != nil {
		logger.Debug("mmap open failed, falling back to file reads", "path", path, "err", err)
		fileSrc, ferr := bytesource.OpenFile(path)
		if ferr != nil {
			return nil, fmt.Errorf("open %q: %w", path, ferr)
		}
		return regf.Open(ctx, fileSrc)
	}
	return regf.Open(ctx, src)
}
