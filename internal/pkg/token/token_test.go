package token

import (
	"strings"
	"testing"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	gen := NewGenerator(12)
	tok, err := gen.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tok) != 12 {
		t.Fatalf("expected length 12, got %d", len(tok))
	}
	for _, r := range tok {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("unexpected rune %q in token %q", r, tok)
		}
	}
}

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator(12)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := gen.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestNewGeneratorDefaultsLength(t *testing.T) {
	gen := NewGenerator(0)
	if gen.Length() != DefaultLength {
		t.Fatalf("expected default length %d, got %d", DefaultLength, gen.Length())
	}
}
