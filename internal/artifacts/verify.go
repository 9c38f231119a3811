package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"waveforge/internal/services"
)

// Postcondition is the reusable success check applied to a stage output
// after its external tool returns. Tool exit status alone is not trusted:
// stage 5's multiplexer can exit nonzero after a perfectly valid encode,
// and stage 4's renderer can exit zero having written nothing.
type Postcondition struct {
	// MinBytes rejects outputs at or below this size. Zero means any
	// existing regular file passes.
	MinBytes int64
	// Pattern, when set, switches the check to counting matching entries
	// inside a directory.
	Pattern string
	// MinCount is the minimum number of pattern matches required.
	MinCount int
}

// Check verifies a single output file.
func (p Postcondition) Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrArtifactMissing, "", "verify output", path, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrArtifactMissing, "", "verify output", fmt.Sprintf("%s is a directory", path), nil)
	}
	if p.MinBytes > 0 && info.Size() <= p.MinBytes {
		return services.Wrap(services.ErrArtifactMissing, "", "verify output",
			fmt.Sprintf("%s is %d bytes, need more than %d", path, info.Size(), p.MinBytes), nil)
	}
	return nil
}

// CheckDir verifies a directory of outputs against Pattern/MinCount and
// returns the number of matches.
func (p Postcondition) CheckDir(dir string) (int, error) {
	pattern := p.Pattern
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("scan %q: %w", dir, err)
	}
	min := p.MinCount
	if min <= 0 {
		min = 1
	}
	if len(matches) < min {
		return len(matches), services.Wrap(services.ErrArtifactMissing, "", "verify output",
			fmt.Sprintf("%d of %d required %s files in %s", len(matches), min, pattern, dir), nil)
	}
	return len(matches), nil
}
