package crypto

import (
	"errors"
	"strings"
	"testing"
)

// TestHashMasterPassword tests PHC hash generation and verification
func TestHashMasterPassword(t *testing.T) {
	passphrase := []byte("correct horse battery staple")

	encoded, err := HashMasterPassword(passphrase)
	if err != nil {
		t.Fatalf("HashMasterPassword() error = %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Errorf("HashMasterPassword() = %q, want $argon2id$v=19$ prefix", encoded)
	}

	if err := VerifyMasterPassword(passphrase, encoded); err != nil {
		t.Errorf("VerifyMasterPassword() with correct passphrase error = %v", err)
	}

	if err := VerifyMasterPassword([]byte("wrong passphrase"), encoded); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("VerifyMasterPassword() with wrong passphrase error = %v, want %v", err, ErrDecryptionFailed)
	}
}

// TestHashMasterPasswordUnique tests that hashing is salted
func TestHashMasterPasswordUnique(t *testing.T) {
	passphrase := []byte("same passphrase")

	a, err := HashMasterPassword(passphrase)
	if err != nil {
		t.Fatalf("HashMasterPassword() error = %v", err)
	}
	b, err := HashMasterPassword(passphrase)
	if err != nil {
		t.Fatalf("HashMasterPassword() error = %v", err)
	}

	if a == b {
		t.Error("HashMasterPassword() should produce distinct hashes for the same passphrase")
	}
}

// TestVerifyMasterPasswordInvalidHash tests rejection of malformed PHC strings
func TestVerifyMasterPasswordInvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not a phc string", "plainhash"},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing segments", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA"},
		{"bad version", "$argon2id$version$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=x,t=y,p=z$c2FsdA$aGFzaA"},
		{"zero cost params", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyMasterPassword([]byte("anything"), tt.encoded); !errors.Is(err, ErrInvalidHash) {
				t.Errorf("VerifyMasterPassword() error = %v, want %v", err, ErrInvalidHash)
			}
		})
	}
}
