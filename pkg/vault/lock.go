package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Unlock attempt limits. The failed-attempt count is tracked by the calling
// process within one session; this file only enforces the resulting
// cooldown across invocations.
const (
	// MaxUnlockAttempts is the number of consecutive failures that arms
	// the cooldown.
	MaxUnlockAttempts = 3

	// LockDuration is how long unlock attempts are refused once armed.
	LockDuration = 120 * time.Second
)

// ErrCooldownActive indicates a still-active cooldown. The process must exit
// rather than poll; the lock is re-checked at the next invocation, not in a
// loop.
var ErrCooldownActive = errors.New("vault: too many failed attempts, cooldown active")

// LockState is the on-disk lock.json shape. The file is present only while
// a cooldown is active.
type LockState struct {
	UnlockAt int64 `json:"unlock_at"`
}

// CheckLock consults the lock file before any unlock attempt. An active
// cooldown is refused outright with the remaining wait, before any
// passphrase is evaluated. An expired lock is deleted and the attempt
// proceeds.
func (s *Store) CheckLock() error {
	raw, err := os.ReadFile(s.LockPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("vault: failed to read lock file: %w", err)
	}

	var state LockState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("%w: lock file: %v", ErrBadFormat, err)
	}

	now := time.Now().Unix()
	if now < state.UnlockAt {
		remaining := time.Duration(state.UnlockAt-now) * time.Second
		return fmt.Errorf("%w: try again in %v", ErrCooldownActive, remaining)
	}

	return s.ClearLock()
}

// ArmLock writes a fresh cooldown ending LockDuration from now. Called by
// the unlock loop once MaxUnlockAttempts consecutive failures accumulate;
// the process is expected to exit afterwards.
func (s *Store) ArmLock() error {
	state := LockState{UnlockAt: time.Now().Add(LockDuration).Unix()}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: failed to serialize lock state: %w", err)
	}
	return atomicWrite(s.LockPath(), data)
}

// ClearLock removes the lock file, if present.
func (s *Store) ClearLock() error {
	if err := os.Remove(s.LockPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("vault: failed to clear lock file: %w", err)
	}
	return nil
}
