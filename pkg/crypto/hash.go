package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash indicates a stored passphrase hash that cannot be parsed.
var ErrInvalidHash = errors.New("crypto: invalid passphrase hash encoding")

// HashMasterPassword produces a salted Argon2id hash of the passphrase in the
// standard PHC string format ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
// The hash authenticates the passphrase; it is never used as an encryption
// key. Current vault files do not need it, but legacy meta.json files carry
// one and migration fixtures are built with it.
func HashMasterPassword(passphrase []byte) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(Rand, salt); err != nil {
		return "", fmt.Errorf("crypto: failed to generate hash salt: %w", err)
	}

	params := DefaultParams()
	hash := argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, KeyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.Memory, params.Time, params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// VerifyMasterPassword checks a passphrase against a stored PHC hash string.
// The comparison is constant time. A mismatch is reported as the generic
// ErrDecryptionFailed so that callers surface the same message for a wrong
// passphrase regardless of which check rejected it.
func VerifyMasterPassword(passphrase []byte, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return ErrInvalidHash
	}

	var params Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return ErrInvalidHash
	}
	if err := params.Validate(); err != nil {
		return ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrInvalidHash
	}
	stored, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrInvalidHash
	}
	if len(stored) == 0 {
		return ErrInvalidHash
	}

	computed := argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, uint32(len(stored)))
	defer SecureWipe(computed)

	if subtle.ConstantTimeCompare(stored, computed) != 1 {
		return ErrDecryptionFailed
	}
	return nil
}
