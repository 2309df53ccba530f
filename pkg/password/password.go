// Package password generates strong random passwords.
package password

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Length bounds. Requests below MinLength are rounded up to it.
const (
	MinLength     = 12
	DefaultLength = 20
)

// Character classes. Ambiguous characters (I, l, 0, O, 1) are excluded so
// generated passwords survive being read aloud or retyped.
const (
	classUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	classLower   = "abcdefghijkmnopqrstuvwxyz"
	classDigits  = "23456789"
	classSymbols = "!@#$%^&*()-_=+[]{};:,.?"
)

// Rand is the source of randomness. It defaults to crypto/rand.Reader and is
// a variable so tests can substitute a deterministic reader.
var Rand io.Reader = rand.Reader

// Generate produces a random password of the given length (minimum 12)
// containing at least one character from each of the four classes:
// uppercase, lowercase, digit, punctuation. One character per class is
// seeded, the remainder is drawn uniformly from the union, and the result
// is shuffled so class membership carries no positional information.
func Generate(length int) (string, error) {
	if length < MinLength {
		length = MinLength
	}

	classes := []string{classUpper, classLower, classDigits, classSymbols}
	out := make([]byte, 0, length)

	for _, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	all := classUpper + classLower + classDigits + classSymbols
	for len(out) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func pick(charset string) (byte, error) {
	idx, err := rand.Int(Rand, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, fmt.Errorf("password: failed to generate random index: %w", err)
	}
	return charset[idx.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle using the cryptographic source.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := rand.Int(Rand, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("password: failed to generate random index: %w", err)
		}
		b[i], b[j.Int64()] = b[j.Int64()], b[i]
	}
	return nil
}
