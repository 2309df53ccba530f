//go:build windows

package vault

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// Owner-only POSIX permission bits have no equivalent here; rely on the
// profile directory ACLs.
func restrictFile(path string) {}

func restrictDir(path string) {}

// availableDiskSpace returns the bytes available to this user on the volume
// holding dir, falling back to the parent when dir does not exist yet.
func availableDiskSpace(dir string) (uint64, error) {
	path := dir
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Dir(path)
	}

	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, err
	}
	return freeBytesAvailable, nil
}
