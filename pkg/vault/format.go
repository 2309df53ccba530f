package vault

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/crypto"
)

// FormatVersion is the current wrapped envelope format version.
const FormatVersion = 2

// State file names inside the vault directory.
const (
	VaultFileName  = "vault.json"
	MetaFileName   = "meta.json"
	LockFileName   = "lock.json"
	ConfigFileName = "config.json"

	// DefaultDirName is the default vault directory under home.
	DefaultDirName = ".terminal-vault"
)

// ErrBadFormat indicates a vault file that is corrupt or uses an unsupported
// format version. There is no auto-repair; the error is surfaced to the
// operator.
var ErrBadFormat = errors.New("vault: corrupt or unsupported vault file")

// WrappedFile is the current on-disk shape (format version 2). Two-layer
// envelope encryption: a per-save random data encryption key (DEK) encrypts
// the serialized vault, and the passphrase-derived key-encrypting key (KEK)
// encrypts the DEK. Changing the passphrase or raising KDF costs only
// re-wraps the DEK instead of re-encrypting the whole body. Every field
// except Version changes on every save.
type WrappedFile struct {
	Version    int           `json:"version"`
	KDF        crypto.Params `json:"kdf"`
	KDFSalt    []byte        `json:"kdf_salt"`
	WrappedKey crypto.Record `json:"wrapped_key"`
	Vault      crypto.Record `json:"vault"`
}

// Meta is the legacy meta.json shape: a salted passphrase hash used only to
// authenticate before decrypting a single-layer legacy vault. Once a vault
// has migrated to the wrapped format the file is left in place; it no longer
// gates anything and is advisory only.
type Meta struct {
	MasterHash string `json:"master_hash"`
}

// isWrappedFile reports whether raw parses as JSON and structurally matches
// the wrapped envelope: all of version, kdf, kdf_salt, wrapped_key and vault
// must be present.
func isWrappedFile(raw []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for _, key := range []string{"version", "kdf", "kdf_salt", "wrapped_key", "vault"} {
		if _, ok := fields[key]; !ok {
			return false
		}
	}
	return true
}

// sealVault serializes and encrypts a vault under the passphrase, producing
// the wrapped file bytes. A fresh KDF salt, a fresh DEK and fresh nonces are
// generated on every call.
func sealVault(v *Vault, passphrase []byte) ([]byte, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}

	params := crypto.DefaultParams()
	kek, err := crypto.DeriveKey(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(kek)

	dek, err := crypto.NewKey()
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(dek)

	wrappedKey, err := crypto.Encrypt(kek, dek)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to serialize vault: %w", err)
	}
	defer crypto.SecureWipe(plaintext)

	body, err := crypto.Encrypt(dek, plaintext)
	if err != nil {
		return nil, err
	}

	wrapped := WrappedFile{
		Version:    FormatVersion,
		KDF:        params,
		KDFSalt:    salt,
		WrappedKey: wrappedKey,
		Vault:      body,
	}

	out, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("vault: failed to serialize wrapped file: %w", err)
	}
	return out, nil
}

// openWrapped decrypts a wrapped envelope file with the passphrase, using
// the KDF parameters and salt embedded in the file. Any authentication
// failure, in either layer, is terminal for the attempt.
func openWrapped(raw, passphrase []byte) (*Vault, error) {
	var wrapped WrappedFile
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if wrapped.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, wrapped.Version)
	}

	kek, err := crypto.DeriveKey(passphrase, wrapped.KDFSalt, wrapped.KDF)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(kek)

	dek, err := crypto.Decrypt(kek, wrapped.WrappedKey)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(dek)

	if len(dek) != crypto.KeyLength {
		return nil, fmt.Errorf("%w: wrapped key has invalid length", ErrBadFormat)
	}

	plaintext, err := crypto.Decrypt(dek, wrapped.Vault)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(plaintext)

	return decodeVault(plaintext)
}

// openLegacyKeyed decrypts a single-layer legacy file with a raw key
// retrieved from the OS secret store.
func openLegacyKeyed(raw, key []byte) (*Vault, error) {
	rec, err := decodeLegacyRecord(raw)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(key, crypto.Record{Nonce: rec.Nonce, Data: rec.Data})
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(plaintext)

	return decodeVault(plaintext)
}

// openLegacyPassword decrypts a single-layer legacy file with a key derived
// from the passphrase and the file's embedded salt.
func openLegacyPassword(raw, passphrase []byte) (*Vault, error) {
	rec, err := decodeLegacyRecord(raw)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.DecryptWithPassword(passphrase, rec)
	if err != nil {
		return nil, err
	}
	defer crypto.SecureWipe(plaintext)

	return decodeVault(plaintext)
}

func decodeLegacyRecord(raw []byte) (crypto.LegacyRecord, error) {
	var rec crypto.LegacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return crypto.LegacyRecord{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(rec.Nonce) == 0 || len(rec.Data) == 0 {
		return crypto.LegacyRecord{}, fmt.Errorf("%w: missing ciphertext fields", ErrBadFormat)
	}
	return rec, nil
}

func decodeVault(plaintext []byte) (*Vault, error) {
	v := New()
	if err := json.Unmarshal(plaintext, v); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload is not a vault: %v", ErrBadFormat, err)
	}
	if v.Entries == nil {
		v.Entries = []Entry{}
	}
	if v.Notes == nil {
		v.Notes = []Note{}
	}
	return v, nil
}
