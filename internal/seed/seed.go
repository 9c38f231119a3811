// Package seed derives deterministic 32-bit seeds from transaction hashes.
//
// The derivation must match the external segment generator's expectation:
// downstream artifact names embed the seed, so any drift here breaks
// reproducibility for every run ever produced.
package seed

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinel replaces an all-zero accumulator so the external synthesis
// tools never receive a degenerate seed.
const Sentinel uint32 = 0xDEADBEEF

// Derive folds a hex transaction hash into an 8-hex-digit seed string.
// The optional 0x prefix is stripped, the remaining digits are split into
// consecutive 8-character chunks (the last chunk may be shorter), and the
// chunk values are XORed together. The result is rendered as a lowercase,
// zero-padded, 0x-prefixed string.
func Derive(txHash string) (string, error) {
	value, err := DeriveValue(txHash)
	if err != nil {
		return "", err
	}
	return Format(value), nil
}

// DeriveValue returns the numeric form of the derived seed.
func DeriveValue(txHash string) (uint32, error) {
	hexDigits := strings.TrimPrefix(strings.TrimSpace(txHash), "0x")
	if hexDigits == "" {
		return 0, fmt.Errorf("derive seed: empty hash")
	}

	var acc uint32
	for i := 0; i < len(hexDigits); i += 8 {
		end := i + 8
		if end > len(hexDigits) {
			end = len(hexDigits)
		}
		chunk := hexDigits[i:end]
		parsed, err := strconv.ParseUint(chunk, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("derive seed: chunk %q: %w", chunk, err)
		}
		acc ^= uint32(parsed)
	}

	if acc == 0 {
		acc = Sentinel
	}
	return acc, nil
}

// Format renders a seed value in the canonical 0x-prefixed form.
func Format(value uint32) string {
	return fmt.Sprintf("0x%08x", value)
}
