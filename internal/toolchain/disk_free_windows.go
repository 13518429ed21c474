//go:build windows

package toolchain

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// FreeDiskSpace returns the bytes the caller may still write to the volume
// holding dir.
func FreeDiskSpace(dir string) (int64, error) {
	ptr, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", dir, err)
	}

	var callerFree uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &callerFree, nil, nil); err != nil {
		return 0, fmt.Errorf("GetDiskFreeSpaceEx %s: %w", dir, err)
	}
	return int64(callerFree), nil
}
