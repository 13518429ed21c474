//go:build !windows

package toolchain

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeDiskSpace returns the bytes an unprivileged process may still write to
// the filesystem holding dir.
func FreeDiskSpace(dir string) (int64, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(dir, &fs); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return int64(fs.Bavail) * int64(fs.Bsize), nil
}
