package vault

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestValidateVaultDir tests traversal and containment rejection
func TestValidateVaultDir(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		name      string
		candidate string
		wantErr   error
	}{
		{"empty", "", ErrEmptyPath},
		{"parent traversal", "../outside", ErrPathTraversal},
		{"nested traversal", "vaults/../../outside", ErrPathTraversal},
		{"absolute outside home", "/tmp/elsewhere", ErrPathOutsideHome},
		{"simple relative", "vaults", nil},
		{"nested relative", "vaults/personal", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ValidateVaultDir(home, tt.candidate)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ValidateVaultDir() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateVaultDir() error = %v", err)
			}
			if !filepath.IsAbs(resolved) {
				t.Errorf("ValidateVaultDir() = %q, want absolute path", resolved)
			}
			if want := filepath.Join(home, tt.candidate); resolved != want {
				t.Errorf("ValidateVaultDir() = %q, want %q", resolved, want)
			}
		})
	}
}

// TestValidateVaultDirAbsoluteInsideHome tests acceptance of an absolute path
// under home
func TestValidateVaultDirAbsoluteInsideHome(t *testing.T) {
	home := t.TempDir()
	candidate := filepath.Join(home, "vaults")

	resolved, err := ValidateVaultDir(home, candidate)
	if err != nil {
		t.Fatalf("ValidateVaultDir() error = %v", err)
	}
	if resolved != candidate {
		t.Errorf("ValidateVaultDir() = %q, want %q", resolved, candidate)
	}
}

// TestValidateVaultDirSymlinkEscape tests that a symlink inside home whose
// target is outside home is rejected
func TestValidateVaultDirSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	home := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(home, "sneaky")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("os.Symlink() error = %v", err)
	}

	if _, err := ValidateVaultDir(home, "sneaky"); !errors.Is(err, ErrPathOutsideHome) {
		t.Errorf("ValidateVaultDir() through escaping symlink error = %v, want %v", err, ErrPathOutsideHome)
	}
}

// TestValidateVaultDirSymlinkParentEscape tests that a new directory under an
// escaping symlinked parent is rejected
func TestValidateVaultDirSymlinkParentEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	home, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("filepath.EvalSymlinks() error = %v", err)
	}
	outside := t.TempDir()

	link := filepath.Join(home, "parent")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("os.Symlink() error = %v", err)
	}

	if _, err := ValidateVaultDir(home, "parent/vault"); !errors.Is(err, ErrPathOutsideHome) {
		t.Errorf("ValidateVaultDir() under escaping parent error = %v, want %v", err, ErrPathOutsideHome)
	}
}

// TestValidateVaultDirSymlinkInsideHome tests that symlinks resolving within
// home stay valid
func TestValidateVaultDirSymlinkInsideHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	home, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("filepath.EvalSymlinks() error = %v", err)
	}

	target := filepath.Join(home, "real")
	if err := os.Mkdir(target, 0o700); err != nil {
		t.Fatalf("os.Mkdir() error = %v", err)
	}
	link := filepath.Join(home, "alias")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("os.Symlink() error = %v", err)
	}

	if _, err := ValidateVaultDir(home, "alias"); err != nil {
		t.Errorf("ValidateVaultDir() through internal symlink error = %v", err)
	}
}
