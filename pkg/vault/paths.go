package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path validation errors. All are fatal: secret storage never silently falls
// back to an unvalidated location.
var (
	ErrEmptyPath       = errors.New("vault: vault directory must not be empty")
	ErrPathTraversal   = errors.New("vault: vault directory must not contain parent traversal")
	ErrPathOutsideHome = errors.New("vault: vault directory must be inside the home directory")
)

// ValidateVaultDir resolves a candidate storage directory against home and
// rejects anything that could redirect secret storage outside of it: parent
// traversal components, locations outside home, and (for paths that already
// exist) symlinks whose real target escapes home. Relative candidates are
// resolved under home. Returns the resolved absolute path.
func ValidateVaultDir(home, candidate string) (string, error) {
	if candidate == "" {
		return "", ErrEmptyPath
	}
	if hasParentComponent(candidate) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, candidate)
	}

	resolved := candidate
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(home, resolved)
	}
	resolved = filepath.Clean(resolved)

	if !isWithin(home, resolved) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideHome, candidate)
	}

	// Resolve symlinks where the path or its parent already exists, so a
	// symlink swap inside home cannot point storage outside it.
	homeReal, err := filepath.EvalSymlinks(home)
	if err != nil {
		homeReal = home
	}

	if _, err := os.Lstat(resolved); err == nil {
		real, err := filepath.EvalSymlinks(resolved)
		if err != nil {
			return "", fmt.Errorf("vault: failed to resolve vault directory: %w", err)
		}
		if !isWithin(homeReal, real) {
			return "", fmt.Errorf("%w: %s resolves outside home", ErrPathOutsideHome, candidate)
		}
	} else if parent := filepath.Dir(resolved); parentExists(parent) {
		realParent, err := filepath.EvalSymlinks(parent)
		if err != nil {
			return "", fmt.Errorf("vault: failed to resolve vault parent directory: %w", err)
		}
		if !isWithin(homeReal, realParent) {
			return "", fmt.Errorf("%w: parent of %s resolves outside home", ErrPathOutsideHome, candidate)
		}
	}

	return resolved, nil
}

func hasParentComponent(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func parentExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
