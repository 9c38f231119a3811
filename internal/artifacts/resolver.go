package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"waveforge/internal/services"
)

// seedFilePattern matches the naming convention of the segment generator's
// output files.
const seedFilePattern = "seed_0x*.wav"

// Resolution describes a located stage artifact.
type Resolution struct {
	// Path is the located artifact.
	Path string
	// Fallback is true when the expected filename was absent and the
	// artifact was found by scanning for the naming pattern instead.
	Fallback bool
}

// SeedFileName returns the filename the segment generator is expected to
// emit for a seed in canonical 0x-prefixed form.
func SeedFileName(seedHex string) string {
	return "seed_" + strings.ToLower(strings.TrimSpace(seedHex)) + ".wav"
}

// ResolveSeedArtifact locates the segment file the generator wrote into
// dir. Policy: check the exact expected name first; if absent, scan the
// directory for the seed-file naming pattern and accept a single candidate.
// Zero candidates or an ambiguous set fail the resolution.
func ResolveSeedArtifact(dir, seedHex string) (Resolution, error) {
	expected := filepath.Join(dir, SeedFileName(seedHex))
	if _, err := os.Stat(expected); err == nil {
		return Resolution{Path: expected}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Resolution{}, fmt.Errorf("inspect %q: %w", expected, err)
	}

	candidates, err := filepath.Glob(filepath.Join(dir, seedFilePattern))
	if err != nil {
		return Resolution{}, fmt.Errorf("scan %q: %w", dir, err)
	}
	switch len(candidates) {
	case 0:
		return Resolution{}, services.Wrap(services.ErrArtifactMissing, "", "resolve segment", fmt.Sprintf("no %s produced in %s", seedFilePattern, dir), nil)
	case 1:
		return Resolution{Path: candidates[0], Fallback: true}, nil
	default:
		return Resolution{}, services.Wrap(services.ErrArtifactMissing, "", "resolve segment", fmt.Sprintf("%d ambiguous candidates in %s", len(candidates), dir), nil)
	}
}
