package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"golang.org/x/term"
)

// readPassphrase reads a passphrase from the terminal without echoing.
func readPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

// readNewPassphrase prompts for a passphrase twice and ensures both reads
// match.
func readNewPassphrase() ([]byte, error) {
	first, err := readPassphrase("Enter new master passphrase: ")
	if err != nil {
		return nil, err
	}

	second, err := readPassphrase("Confirm master passphrase: ")
	if err != nil {
		crypto.SecureWipe(first)
		return nil, err
	}
	defer crypto.SecureWipe(second)

	if len(first) == 0 {
		crypto.SecureWipe(first)
		return nil, errors.New("passphrase must not be empty")
	}
	if !bytes.Equal(first, second) {
		crypto.SecureWipe(first)
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}

// unlockVault runs the interactive unlock protocol: the lock file is checked
// once up front, then up to vault.MaxUnlockAttempts passphrase prompts are
// allowed. Reaching the limit arms the cooldown and the process must exit;
// the lock is enforced again at the next invocation, not re-polled here.
//
// On success the decrypted vault and the accepted passphrase are returned;
// the caller must wipe the passphrase when the session ends.
func unlockVault() (*vault.Vault, []byte, error) {
	if err := store.CheckLock(); err != nil {
		return nil, nil, err
	}

	if !store.Exists() {
		return nil, nil, fmt.Errorf("no vault found at %s, run 'vaulty init' first", store.Dir())
	}

	for attempts := 1; ; attempts++ {
		passphrase, err := readPassphrase("Enter master passphrase: ")
		if err != nil {
			return nil, nil, err
		}

		v, err := store.Unlock(passphrase)
		if err == nil {
			return v, passphrase, nil
		}
		crypto.SecureWipe(passphrase)

		// Only authentication failures are retryable; rollback, format
		// and secret-store errors are fatal for the invocation.
		if !errors.Is(err, crypto.ErrDecryptionFailed) {
			return nil, nil, err
		}

		if attempts >= vault.MaxUnlockAttempts {
			if lockErr := store.ArmLock(); lockErr != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to arm lockout: %v\n", lockErr)
			}
			return nil, nil, fmt.Errorf("too many failed attempts, locked for %v", vault.LockDuration)
		}
		fmt.Fprintf(os.Stderr, "Unlock failed: %v (%d attempts left)\n",
			err, vault.MaxUnlockAttempts-attempts)
	}
}

// warnPermissions surfaces insecure file modes after a successful unlock.
func warnPermissions() {
	for _, w := range store.PermissionWarnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
