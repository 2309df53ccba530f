//go:build !windows

package vault

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// restrictFile forces owner-only read/write on a state file.
func restrictFile(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Chmod(path, FileMode)
	}
}

// restrictDir forces owner-only read/write/execute on the vault directory.
func restrictDir(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Chmod(path, DirMode)
	}
}

// availableDiskSpace returns the bytes available to this user on the
// filesystem holding dir, falling back to the parent when dir does not
// exist yet.
func availableDiskSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		if err := unix.Statfs(filepath.Dir(dir), &stat); err != nil {
			return 0, err
		}
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
