package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/keyring"
)

// Store-level errors.
var (
	ErrVaultMissing = errors.New("vault: vault file not found")
	ErrVaultExists  = errors.New("vault: vault already exists at this path")

	// ErrRollback indicates the vault file is provably stale: its revision
	// is older than the trusted revision held in the OS secret store. The
	// unlock is refused even with the correct passphrase.
	ErrRollback = errors.New("vault: rollback detected")
)

// Store binds a vault directory to an OS secret store and orchestrates
// unlock, save, and legacy migration. All operations are synchronous and run
// on the caller's goroutine. There is deliberately no inter-process mutual
// exclusion on the vault file: concurrent savers race and the last writer
// wins on the whole file.
type Store struct {
	dir  string
	ring keyring.Store
}

// NewStore creates a Store over an explicit directory. Callers are expected
// to have validated the directory (ResolveBaseDir does).
func NewStore(dir string, ring keyring.Store) *Store {
	return &Store{dir: dir, ring: ring}
}

// Open creates a Store over the configured (or default) vault directory.
func Open(ring keyring.Store) (*Store, error) {
	dir, err := ResolveBaseDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir, ring), nil
}

// Dir returns the vault directory.
func (s *Store) Dir() string { return s.dir }

// VaultPath returns the vault file location.
func (s *Store) VaultPath() string { return filepath.Join(s.dir, VaultFileName) }

// MetaPath returns the legacy meta file location.
func (s *Store) MetaPath() string { return filepath.Join(s.dir, MetaFileName) }

// LockPath returns the lock file location.
func (s *Store) LockPath() string { return filepath.Join(s.dir, LockFileName) }

// Exists reports whether a vault file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.VaultPath())
	return err == nil
}

// formatHandler is one generation of the on-disk format. Handlers are tried
// in fixed priority order; the first whose Detect accepts the file owns the
// attempt, and its failure is terminal (no falling through to older
// handlers).
type formatHandler struct {
	name    string
	detect  func(s *Store, raw []byte) bool
	unlock  func(s *Store, raw, passphrase []byte) (*Vault, error)
	migrate bool // re-persist in the current format after success
}

var formatHandlers = []formatHandler{
	{
		name:   "wrapped-v2",
		detect: func(_ *Store, raw []byte) bool { return isWrappedFile(raw) },
		unlock: func(_ *Store, raw, passphrase []byte) (*Vault, error) {
			return openWrapped(raw, passphrase)
		},
	},
	{
		name:    "legacy-meta",
		detect:  func(s *Store, _ []byte) bool { return s.hasMeta() },
		unlock:  (*Store).unlockLegacyMeta,
		migrate: true,
	},
	{
		name:   "legacy",
		detect: func(_ *Store, _ []byte) bool { return true },
		unlock: func(_ *Store, raw, passphrase []byte) (*Vault, error) {
			return openLegacyPassword(raw, passphrase)
		},
		migrate: true,
	},
}

// Unlock decrypts the vault with the passphrase, detecting the on-disk
// generation, migrating legacy files forward to the wrapped format, and
// verifying the loaded revision against the trusted counter. The passphrase
// is not consumed; wiping it remains the caller's responsibility.
func (s *Store) Unlock(passphrase []byte) (*Vault, error) {
	raw, err := os.ReadFile(s.VaultPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrVaultMissing
		}
		return nil, fmt.Errorf("vault: failed to read vault file: %w", err)
	}

	for _, h := range formatHandlers {
		if !h.detect(s, raw) {
			continue
		}

		v, err := h.unlock(s, raw, passphrase)
		if err != nil {
			return nil, err
		}

		// Legacy generations are rewritten in the current format as a
		// side effect of a successful unlock (forward-only migration).
		if h.migrate {
			if err := s.Save(v, passphrase); err != nil {
				return nil, fmt.Errorf("vault: migration to wrapped format failed: %w", err)
			}
		}

		if err := s.verifyRevision(v); err != nil {
			return nil, err
		}
		return v, nil
	}

	return nil, ErrBadFormat
}

// unlockLegacyMeta handles the middle generation: a meta.json passphrase
// hash plus a single-layer vault body. The passphrase authenticates against
// the stored hash first; decryption then prefers a raw key from the OS
// secret store, falling back to passphrase-derived decryption only when
// that specific decryption fails.
func (s *Store) unlockLegacyMeta(raw, passphrase []byte) (*Vault, error) {
	meta, err := s.loadMeta()
	if err != nil {
		return nil, err
	}

	if err := crypto.VerifyMasterPassword(passphrase, meta.MasterHash); err != nil {
		return nil, err
	}

	legacyKey, err := keyring.LoadLegacyKey(s.ring)
	switch {
	case err == nil:
		defer crypto.SecureWipe(legacyKey)
		v, err := openLegacyKeyed(raw, legacyKey)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, crypto.ErrDecryptionFailed) {
			return nil, err
		}
		// Key no longer matches this file; the passphrase path below
		// is still authoritative.
	case errors.Is(err, keyring.ErrNotFound):
		// No stored key, passphrase path only.
	default:
		// A failing secret store may be masking tampering rather than a
		// simple absence. Hard error.
		return nil, err
	}

	return openLegacyPassword(raw, passphrase)
}

// Save encrypts and persists the vault under the passphrase, bumping the
// revision (saturating) and best-effort recording it as trusted. A secret
// store failure degrades rollback protection but never blocks the save.
func (s *Store) Save(v *Vault, passphrase []byte) error {
	if v.Revision < math.MaxUint64 {
		v.Revision++
	}

	data, err := sealVault(v, passphrase)
	if err != nil {
		return err
	}

	if err := checkDiskSpaceForWrite(s.dir, len(data)); err != nil {
		return err
	}
	if err := atomicWrite(s.VaultPath(), data); err != nil {
		return err
	}

	if err := keyring.StoreTrustedRevision(s.ring, v.Revision); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to update trusted revision: %v\n", err)
	}
	return nil
}

// Init creates and persists an empty vault. Fails if one already exists.
func (s *Store) Init(passphrase []byte) (*Vault, error) {
	if s.Exists() {
		return nil, ErrVaultExists
	}

	v := New()
	if err := s.Save(v, passphrase); err != nil {
		return nil, err
	}
	return v, nil
}

// verifyRevision compares the loaded revision with the trusted one. Strictly
// older fails with ErrRollback; newer advances the trusted value. When the
// secret store has no entry yet, the loaded revision seeds it. A store read
// failure skips verification with a warning: rollback protection is
// best-effort and must not lock the user out of an otherwise valid vault.
func (s *Store) verifyRevision(v *Vault) error {
	trusted, err := keyring.LoadTrustedRevision(s.ring)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			if err := keyring.StoreTrustedRevision(s.ring, v.Revision); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to record trusted revision: %v\n", err)
			}
			return nil
		}
		fmt.Fprintf(os.Stderr, "warning: rollback check skipped: %v\n", err)
		return nil
	}

	switch {
	case v.Revision < trusted:
		return fmt.Errorf("%w: loaded revision %d is older than trusted revision %d",
			ErrRollback, v.Revision, trusted)
	case v.Revision > trusted:
		if err := keyring.StoreTrustedRevision(s.ring, v.Revision); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to advance trusted revision: %v\n", err)
		}
	}
	return nil
}

func (s *Store) hasMeta() bool {
	meta, err := s.loadMeta()
	return err == nil && meta.MasterHash != ""
}

func (s *Store) loadMeta() (*Meta, error) {
	raw, err := os.ReadFile(s.MetaPath())
	if err != nil {
		return nil, fmt.Errorf("vault: failed to read meta file: %w", err)
	}

	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: meta file: %v", ErrBadFormat, err)
	}
	return &meta, nil
}

// Format reports which on-disk generation the vault file currently has:
// "wrapped-v2", "legacy-meta", "legacy", or "missing".
func (s *Store) Format() string {
	raw, err := os.ReadFile(s.VaultPath())
	if err != nil {
		return "missing"
	}
	for _, h := range formatHandlers {
		if h.detect(s, raw) {
			return h.name
		}
	}
	return "legacy"
}

// PermissionWarnings reports state files whose permissions allow group or
// other access. Advisory only; nothing is blocked.
func (s *Store) PermissionWarnings() []string {
	var warnings []string

	if info, err := os.Stat(s.dir); err == nil {
		if perm := info.Mode().Perm(); perm&0077 != 0 {
			warnings = append(warnings,
				fmt.Sprintf("vault directory has insecure permissions %04o (expected 0700)", perm))
		}
	}

	for _, name := range []string{VaultFileName, MetaFileName, ConfigFileName, LockFileName} {
		info, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		if perm := info.Mode().Perm(); perm&0077 != 0 {
			warnings = append(warnings,
				fmt.Sprintf("%s has insecure permissions %04o (expected 0600)", name, perm))
		}
	}
	return warnings
}
