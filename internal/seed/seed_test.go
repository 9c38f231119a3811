package seed_test

import (
	"testing"

	"waveforge/internal/seed"
)

func TestDeriveChunkXOR(t *testing.T) {
	cases := []struct {
		name string
		hash string
		want string
	}{
		{"single chunk", "0x12345678", "0x12345678"},
		{"second chunk zero", "0x1234567800000000", "0x12345678"},
		{"ones and zeros", "0xffffffff00000000", "0xffffffff"},
		{"no prefix", "12345678", "0x12345678"},
		{"short tail chunk", "0x12345678ff", "0x12345687"},
		{"uppercase digits", "0xDEADBEEF", "0xdeadbeef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := seed.Derive(tc.hash)
			if err != nil {
				t.Fatalf("Derive(%q) failed: %v", tc.hash, err)
			}
			if got != tc.want {
				t.Fatalf("Derive(%q) = %q, want %q", tc.hash, got, tc.want)
			}
		})
	}
}

func TestDeriveZeroAvoidance(t *testing.T) {
	got, err := seed.Derive("0x00000000")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if got != "0xdeadbeef" {
		t.Fatalf("expected sentinel 0xdeadbeef, got %q", got)
	}

	// Two identical chunks XOR to zero as well.
	got, err = seed.Derive("0x1234567812345678")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if got != "0xdeadbeef" {
		t.Fatalf("expected sentinel 0xdeadbeef, got %q", got)
	}
}

func TestDeriveDeterminism(t *testing.T) {
	const hash = "0x9f3a2b1c4d5e6f708192a3b4c5d6e7f8091a2b3c"
	first, err := seed.Derive(hash)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := seed.Derive(hash)
		if err != nil {
			t.Fatalf("Derive failed on iteration %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("iteration %d: Derive returned %q, want %q", i, again, first)
		}
	}
}

func TestDeriveRejectsMalformedInput(t *testing.T) {
	for _, hash := range []string{"", "0x", "0xnothex", "0x12345678zz"} {
		if _, err := seed.Derive(hash); err == nil {
			t.Fatalf("Derive(%q) succeeded, expected error", hash)
		}
	}
}
