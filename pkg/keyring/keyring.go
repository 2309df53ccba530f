// Package keyring adapts the OS secret store for vaulty.
//
// Two values live there: the legacy raw vault key from the old single-layer
// scheme, and the trusted revision counter used for rollback detection. The
// trusted revision is the one piece of state an attacker who merely copies
// the vault file cannot forge, which is why it is kept outside the
// filesystem. The store is exposed as a small capability interface so tests
// can substitute an in-memory implementation.
package keyring

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"sync"

	zkeyring "github.com/zalando/go-keyring"
)

// Service-scoped entry names in the OS secret store.
const (
	ServiceName = "terminal-vault"

	// LegacyKeyUser holds a base64 raw 256-bit key from the oldest scheme.
	// Current code only reads it.
	LegacyKeyUser = "vault-key"

	// RevisionUser holds the trusted revision counter as a decimal string.
	RevisionUser = "vault-revision"
)

const legacyKeyLength = 32

// Sentinel errors returned by keyring operations.
var (
	// ErrNotFound indicates the entry is absent, as opposed to a store failure.
	ErrNotFound = errors.New("keyring: entry not found")

	// ErrInvalidEntry indicates a stored value that cannot be decoded.
	ErrInvalidEntry = errors.New("keyring: stored entry is malformed")
)

// Store is the capability the vault core needs from an OS secret store.
// Get returns ErrNotFound for an absent entry; any other error is a store
// failure and may mask a security-relevant condition.
type Store interface {
	Get(user string) (string, error)
	Set(user, value string) error
}

// System is the Store backed by the operating system keyring.
type System struct{}

// Get retrieves an entry from the OS keyring.
func (System) Get(user string) (string, error) {
	value, err := zkeyring.Get(ServiceName, user)
	if err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring: read failed: %w", err)
	}
	return value, nil
}

// Set stores an entry in the OS keyring.
func (System) Set(user, value string) error {
	if err := zkeyring.Set(ServiceName, user, value); err != nil {
		return fmt.Errorf("keyring: write failed: %w", err)
	}
	return nil
}

// Memory is an in-process Store for tests and for environments without a
// keyring daemon. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string

	// FailReads and FailWrites force store errors, for exercising the
	// degraded paths.
	FailReads  bool
	FailWrites bool
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

var errMemoryFailure = errors.New("keyring: simulated store failure")

// Get retrieves an entry from the in-memory store.
func (m *Memory) Get(user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return "", errMemoryFailure
	}
	value, ok := m.entries[user]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores an entry in the in-memory store.
func (m *Memory) Set(user, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errMemoryFailure
	}
	m.entries[user] = value
	return nil
}

// LoadLegacyKey reads the legacy raw vault key. Returns ErrNotFound when no
// key is stored; any other failure is surfaced as-is since it may hide a
// tampered or broken store rather than a simple absence.
func LoadLegacyKey(s Store) ([]byte, error) {
	stored, err := s.Get(LegacyKeyUser)
	if err != nil {
		return nil, err
	}

	key, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy key is not valid base64", ErrInvalidEntry)
	}
	if len(key) != legacyKeyLength {
		return nil, fmt.Errorf("%w: legacy key has length %d, want %d", ErrInvalidEntry, len(key), legacyKeyLength)
	}
	return key, nil
}

// StoreLegacyKey writes the legacy raw vault key. Only kept for historical
// compatibility; current save paths never call it.
func StoreLegacyKey(s Store, key []byte) error {
	if len(key) != legacyKeyLength {
		return fmt.Errorf("%w: legacy key has length %d, want %d", ErrInvalidEntry, len(key), legacyKeyLength)
	}
	return s.Set(LegacyKeyUser, base64.StdEncoding.EncodeToString(key))
}

// LoadTrustedRevision reads the trusted revision counter. Returns ErrNotFound
// before the first successful unlock or save has recorded one.
func LoadTrustedRevision(s Store) (uint64, error) {
	stored, err := s.Get(RevisionUser)
	if err != nil {
		return 0, err
	}

	rev, err := strconv.ParseUint(stored, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: trusted revision %q is not a number", ErrInvalidEntry, stored)
	}
	return rev, nil
}

// StoreTrustedRevision records a new trusted revision counter.
func StoreTrustedRevision(s Store, revision uint64) error {
	return s.Set(RevisionUser, strconv.FormatUint(revision, 10))
}
