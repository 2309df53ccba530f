package password

import (
	"strings"
	"testing"
)

// TestGenerateLength tests length handling including the minimum floor
func TestGenerateLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{"default", DefaultLength, DefaultLength},
		{"minimum", MinLength, MinLength},
		{"below minimum rounds up", 4, MinLength},
		{"zero rounds up", 0, MinLength},
		{"negative rounds up", -1, MinLength},
		{"long", 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw, err := Generate(tt.length)
			if err != nil {
				t.Fatalf("Generate(%d) error = %v", tt.length, err)
			}
			if len(pw) != tt.wantLen {
				t.Errorf("Generate(%d) length = %d, want %d", tt.length, len(pw), tt.wantLen)
			}
		})
	}
}

// TestGenerateClassCoverage tests that every class is always represented
func TestGenerateClassCoverage(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := Generate(MinLength)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		for _, class := range []struct {
			name    string
			charset string
		}{
			{"uppercase", classUpper},
			{"lowercase", classLower},
			{"digit", classDigits},
			{"symbol", classSymbols},
		} {
			if !strings.ContainsAny(pw, class.charset) {
				t.Errorf("Generate() = %q, missing %s character", pw, class.name)
			}
		}
	}
}

// TestGenerateCharset tests that only allowed characters appear
func TestGenerateCharset(t *testing.T) {
	all := classUpper + classLower + classDigits + classSymbols

	pw, err := Generate(100)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, c := range pw {
		if !strings.ContainsRune(all, c) {
			t.Errorf("Generate() produced character %q outside the allowed set", c)
		}
	}

	// Ambiguous characters must never appear
	if strings.ContainsAny(pw, "0O1lI") {
		t.Errorf("Generate() = %q, contains an ambiguous character", pw)
	}
}

// TestGenerateUnique tests that consecutive passwords differ
func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[pw] {
			t.Errorf("Generate() produced duplicate password on iteration %d", i)
		}
		seen[pw] = true
	}
}
