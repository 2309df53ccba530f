package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem permission contract on POSIX platforms. Enforcement is
// best-effort elsewhere.
const (
	FileMode = 0600 // Owner read/write only
	DirMode  = 0700 // Owner read/write/execute only
)

// MinDiskSpaceBytes is the free-space floor checked before vault writes.
const MinDiskSpaceBytes = 10 * 1024 * 1024 // 10 MB

// atomicWrite writes data to path so that a crash mid-write never leaves a
// partially written file: full contents go to a temporary file in the same
// directory, are synced to stable storage, and the temp file is renamed over
// the destination. Permissions are tightened afterwards.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".vaulty-*")
	if err != nil {
		return fmt.Errorf("vault: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// Remove the temp file on any failure before the rename.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("vault: failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("vault: failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vault: failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("vault: atomic rename failed: %w", err)
	}

	restrictFile(path)
	restrictDir(dir)
	return nil
}

// ensureDir creates the directory with owner-only permissions, tightening
// them if it already exists.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("vault: failed to create directory: %w", err)
	}
	restrictDir(dir)
	return nil
}

// checkDiskSpaceForWrite verifies sufficient free space before a write. A
// failure to stat the filesystem only warns; blocking a save on a broken
// statfs would be worse than proceeding.
func checkDiskSpaceForWrite(dir string, dataSize int) error {
	available, err := availableDiskSpace(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to check disk space: %v\n", err)
		return nil
	}

	required := uint64(MinDiskSpaceBytes)
	if uint64(dataSize*2) > required {
		required = uint64(dataSize * 2)
	}

	if available < required {
		return fmt.Errorf("vault: insufficient disk space: only %d MB available, need at least %d MB",
			available/(1024*1024), required/(1024*1024))
	}
	return nil
}
