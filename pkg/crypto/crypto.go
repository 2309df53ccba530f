// Package crypto provides cryptographic primitives for vaulty.
//
// This package implements AES-256-GCM authenticated encryption and Argon2id
// key derivation with self-describing cost parameters.
//
// # Security Features
//
//   - AES-256-GCM authenticated encryption
//   - Argon2id key derivation (19 MiB memory, 2 iterations, 1 thread by default)
//   - Cryptographically secure random nonce generation
//   - Secure memory wiping for sensitive data
//
// # Example Usage
//
//	// Derive a key from a passphrase
//	salt, _ := crypto.NewSalt()
//	key, err := crypto.DeriveKey([]byte("passphrase"), salt, crypto.DefaultParams())
//
//	// Encrypt data
//	rec, err := crypto.Encrypt(key, plaintext)
//
//	// Decrypt data
//	plaintext, err := crypto.Decrypt(key, rec)
//
//	// Securely wipe sensitive data
//	crypto.SecureWipe(key)
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/argon2"
)

// Key derivation and cipher size constants.
const (
	// KeyLength is the length of encryption keys in bytes (256 bits).
	KeyLength = 32

	// SaltLength is the length of KDF salts in bytes (128 bits).
	SaltLength = 16

	// NonceLength is the length of GCM nonces in bytes (96 bits).
	NonceLength = 12

	// DefaultMemory is the default Argon2id memory cost in KiB (19 MiB).
	DefaultMemory = 19 * 1024

	// DefaultTime is the default number of Argon2id iterations.
	DefaultTime = 2

	// DefaultThreads is the default Argon2id degree of parallelism.
	DefaultThreads = 1
)

// Sentinel errors returned by crypto functions.
var (
	// ErrKeyDerivation indicates invalid Argon2id cost parameters.
	ErrKeyDerivation = errors.New("crypto: invalid key derivation parameters")

	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: invalid key length, must be 32 bytes")

	// ErrInvalidNonceLength indicates the nonce is not 12 bytes.
	ErrInvalidNonceLength = errors.New("crypto: invalid nonce length, must be 12 bytes")

	// ErrCiphertextTooShort indicates the ciphertext is shorter than the GCM tag.
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")

	// ErrDecryptionFailed indicates authentication failure. The message is
	// deliberately generic: a wrong passphrase and tampered ciphertext are
	// indistinguishable to the caller.
	ErrDecryptionFailed = errors.New("crypto: decryption failed, wrong key or corrupted data")
)

// Rand is the source of cryptographic randomness for salts, nonces and keys.
// It defaults to crypto/rand.Reader and is a variable so tests can substitute
// a deterministic reader.
var Rand io.Reader = rand.Reader

// Params holds Argon2id cost parameters. The parameters are stored alongside
// every encrypted file so they can be raised over time without breaking old
// files.
type Params struct {
	Memory  uint32 `json:"m_cost"`
	Time    uint32 `json:"t_cost"`
	Threads uint8  `json:"p_cost"`
}

// DefaultParams returns the cost parameters used for new writes.
func DefaultParams() Params {
	return Params{
		Memory:  DefaultMemory,
		Time:    DefaultTime,
		Threads: DefaultThreads,
	}
}

// Validate reports whether the parameters are usable for key derivation.
func (p Params) Validate() error {
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return fmt.Errorf("%w: m=%d t=%d p=%d", ErrKeyDerivation, p.Memory, p.Time, p.Threads)
	}
	return nil
}

// Record is an authenticated ciphertext with its nonce. Both fields are raw
// bytes in memory and base64 strings on the wire (encoding/json's []byte
// encoding matches the file format).
type Record struct {
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// LegacyRecord is the single-layer passphrase-keyed ciphertext shape used by
// old vault files. The KDF salt is embedded in the record itself.
type LegacyRecord struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// DeriveKey derives a 256-bit encryption key from a passphrase using Argon2id.
// Derivation is deterministic given identical inputs; it is used both to
// produce the key-encrypting key for new saves and to re-derive it on unlock.
func DeriveKey(passphrase, salt []byte, params Params) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, KeyLength), nil
}

// NewSalt generates a fresh 128-bit KDF salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(Rand, salt); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate salt: %w", err)
	}
	return salt, nil
}

// NewKey generates a fresh random 256-bit key, suitable as a data encryption
// key. A fresh key is generated on every save so that nonces never repeat
// under the same key.
func NewKey() ([]byte, error) {
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(Rand, key); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate key: %w", err)
	}
	return key, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a fresh random nonce.
// The authentication tag is appended to the ciphertext.
func Encrypt(key, plaintext []byte) (Record, error) {
	if len(key) != KeyLength {
		return Record{}, ErrInvalidKeyLength
	}

	gcm, err := newGCM(key)
	if err != nil {
		return Record{}, err
	}

	nonce := make([]byte, NonceLength)
	if _, err := io.ReadFull(Rand, nonce); err != nil {
		return Record{}, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}

	return Record{
		Nonce: nonce,
		Data:  gcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Decrypt decrypts a Record using AES-256-GCM. The authentication tag is
// verified before any plaintext is returned; on verification failure the
// generic ErrDecryptionFailed is returned regardless of the root cause.
func Decrypt(key []byte, rec Record) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(rec.Nonce) != NonceLength {
		return nil, ErrInvalidNonceLength
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(rec.Data) < gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := gcm.Open(nil, rec.Nonce, rec.Data, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptWithPassword encrypts plaintext under a key derived from the
// passphrase and a fresh embedded salt.
//
// Deprecated: this is the old single-layer scheme. It is retained only so
// that legacy fixtures can be constructed; new writes always use the
// two-layer envelope.
func EncryptWithPassword(passphrase, plaintext []byte) (LegacyRecord, error) {
	salt, err := NewSalt()
	if err != nil {
		return LegacyRecord{}, err
	}

	key, err := DeriveKey(passphrase, salt, DefaultParams())
	if err != nil {
		return LegacyRecord{}, err
	}
	defer SecureWipe(key)

	rec, err := Encrypt(key, plaintext)
	if err != nil {
		return LegacyRecord{}, err
	}

	return LegacyRecord{
		Salt:  salt,
		Nonce: rec.Nonce,
		Data:  rec.Data,
	}, nil
}

// DecryptWithPassword decrypts a legacy single-layer record by re-deriving
// the key from the passphrase and the record's embedded salt.
func DecryptWithPassword(passphrase []byte, rec LegacyRecord) ([]byte, error) {
	key, err := DeriveKey(passphrase, rec.Salt, DefaultParams())
	if err != nil {
		return nil, err
	}
	defer SecureWipe(key)

	return Decrypt(key, Record{Nonce: rec.Nonce, Data: rec.Data})
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create GCM: %w", err)
	}
	return gcm, nil
}

// SecureWipe overwrites a byte slice with zeros in a way that prevents
// compiler optimization from removing the operation.
// This is critical for securely destroying sensitive data like the DEK.
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// runtime.KeepAlive ensures the write operations are not optimized away
	// by the compiler since b is still "in use" after the loop.
	runtime.KeepAlive(b)
}
