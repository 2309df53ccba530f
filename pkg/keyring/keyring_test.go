package keyring

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

// TestMemoryStore tests the in-memory Store behavior
func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want %v", err, ErrNotFound)
	}

	if err := m.Set("user", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get("user")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

// TestMemoryStoreFailures tests the simulated failure switches
func TestMemoryStoreFailures(t *testing.T) {
	m := NewMemory()
	if err := m.Set("user", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	m.FailReads = true
	if _, err := m.Get("user"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() with FailReads error = %v, want a store failure distinct from ErrNotFound", err)
	}
	m.FailReads = false

	m.FailWrites = true
	if err := m.Set("user", "other"); err == nil {
		t.Error("Set() with FailWrites should fail")
	}
}

// TestLegacyKeyRoundTrip tests storing and loading the legacy raw key
func TestLegacyKeyRoundTrip(t *testing.T) {
	m := NewMemory()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	if err := StoreLegacyKey(m, key); err != nil {
		t.Fatalf("StoreLegacyKey() error = %v", err)
	}

	loaded, err := LoadLegacyKey(m)
	if err != nil {
		t.Fatalf("LoadLegacyKey() error = %v", err)
	}
	if !bytes.Equal(loaded, key) {
		t.Error("LoadLegacyKey() returned a different key")
	}
}

// TestLoadLegacyKeyErrors tests absent and malformed legacy key entries
func TestLoadLegacyKeyErrors(t *testing.T) {
	m := NewMemory()

	if _, err := LoadLegacyKey(m); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadLegacyKey() on empty store error = %v, want %v", err, ErrNotFound)
	}

	tests := []struct {
		name  string
		value string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"wrong length", "c2hvcnQ="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Set(LegacyKeyUser, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if _, err := LoadLegacyKey(m); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("LoadLegacyKey() error = %v, want %v", err, ErrInvalidEntry)
			}
		})
	}
}

// TestStoreLegacyKeyRejectsBadLength tests key length validation on write
func TestStoreLegacyKeyRejectsBadLength(t *testing.T) {
	m := NewMemory()
	if err := StoreLegacyKey(m, make([]byte, 16)); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("StoreLegacyKey() error = %v, want %v", err, ErrInvalidEntry)
	}
}

// TestTrustedRevisionRoundTrip tests the revision counter encoding
func TestTrustedRevisionRoundTrip(t *testing.T) {
	m := NewMemory()

	if _, err := LoadTrustedRevision(m); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadTrustedRevision() on empty store error = %v, want %v", err, ErrNotFound)
	}

	for _, rev := range []uint64{0, 1, 42, 1<<64 - 1} {
		if err := StoreTrustedRevision(m, rev); err != nil {
			t.Fatalf("StoreTrustedRevision(%d) error = %v", rev, err)
		}
		got, err := LoadTrustedRevision(m)
		if err != nil {
			t.Fatalf("LoadTrustedRevision() error = %v", err)
		}
		if got != rev {
			t.Errorf("LoadTrustedRevision() = %d, want %d", got, rev)
		}
	}
}

// TestLoadTrustedRevisionMalformed tests rejection of a non-numeric counter
func TestLoadTrustedRevisionMalformed(t *testing.T) {
	m := NewMemory()
	if err := m.Set(RevisionUser, "not-a-number"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := LoadTrustedRevision(m); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("LoadTrustedRevision() error = %v, want %v", err, ErrInvalidEntry)
	}
}
