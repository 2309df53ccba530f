package vault

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/NodyHody06/vaulty/pkg/keyring"
)

// TestCheckLockAbsent tests that no lock file means no cooldown
func TestCheckLockAbsent(t *testing.T) {
	s, _ := testStore(t)
	if err := s.CheckLock(); err != nil {
		t.Errorf("CheckLock() with no lock file error = %v", err)
	}
}

// TestArmLock tests that an armed cooldown refuses further attempts
func TestArmLock(t *testing.T) {
	s, _ := testStore(t)

	if err := s.ArmLock(); err != nil {
		t.Fatalf("ArmLock() error = %v", err)
	}

	err := s.CheckLock()
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("CheckLock() error = %v, want %v", err, ErrCooldownActive)
	}

	// The stored deadline is LockDuration out, as Unix seconds
	raw, readErr := os.ReadFile(s.LockPath())
	if readErr != nil {
		t.Fatalf("os.ReadFile() error = %v", readErr)
	}
	var state LockState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	deadline := time.Unix(state.UnlockAt, 0)
	if until := time.Until(deadline); until <= 0 || until > LockDuration {
		t.Errorf("lock deadline %v out of range (0, %v]", until, LockDuration)
	}
}

// TestCheckLockExpired tests that an expired cooldown is cleared and the
// attempt proceeds
func TestCheckLockExpired(t *testing.T) {
	s, _ := testStore(t)

	state := LockState{UnlockAt: time.Now().Add(-time.Minute).Unix()}
	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if err := atomicWrite(s.LockPath(), raw); err != nil {
		t.Fatalf("atomicWrite() error = %v", err)
	}

	if err := s.CheckLock(); err != nil {
		t.Errorf("CheckLock() with expired lock error = %v", err)
	}
	if _, err := os.Stat(s.LockPath()); !os.IsNotExist(err) {
		t.Error("expired lock file should have been removed")
	}
}

// TestCheckLockMalformed tests that a corrupt lock file is surfaced, not
// silently ignored
func TestCheckLockMalformed(t *testing.T) {
	s, _ := testStore(t)

	if err := atomicWrite(s.LockPath(), []byte("not json")); err != nil {
		t.Fatalf("atomicWrite() error = %v", err)
	}
	if err := s.CheckLock(); !errors.Is(err, ErrBadFormat) {
		t.Errorf("CheckLock() error = %v, want %v", err, ErrBadFormat)
	}
}

// TestClearLockIdempotent tests that clearing an absent lock succeeds
func TestClearLockIdempotent(t *testing.T) {
	s := NewStore(t.TempDir(), keyring.NewMemory())
	if err := s.ClearLock(); err != nil {
		t.Errorf("ClearLock() with no lock file error = %v", err)
	}
}

// TestLockConstants verifies the attempt limit and cooldown length
func TestLockConstants(t *testing.T) {
	if MaxUnlockAttempts != 3 {
		t.Errorf("MaxUnlockAttempts = %d, want 3", MaxUnlockAttempts)
	}
	if LockDuration != 120*time.Second {
		t.Errorf("LockDuration = %v, want 120s", LockDuration)
	}
}
