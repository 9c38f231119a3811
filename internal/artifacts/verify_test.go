package artifacts_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"waveforge/internal/artifacts"
	"waveforge/internal/services"
)

func TestCheckMinBytes(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.mp4")
	if err := os.WriteFile(small, make([]byte, 1000), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	big := filepath.Join(dir, "big.mp4")
	if err := os.WriteFile(big, make([]byte, 1001), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	check := artifacts.Postcondition{MinBytes: 1000}
	if err := check.Check(small); !errors.Is(err, services.ErrArtifactMissing) {
		t.Fatalf("expected size rejection at boundary, got %v", err)
	}
	if err := check.Check(big); err != nil {
		t.Fatalf("expected pass above boundary, got %v", err)
	}
}

func TestCheckMissingFile(t *testing.T) {
	check := artifacts.Postcondition{}
	err := check.Check(filepath.Join(t.TempDir(), "absent.wav"))
	if !errors.Is(err, services.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}

func TestCheckDirCountsMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_0001.ppm", "frame_0002.ppm", "render.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	check := artifacts.Postcondition{Pattern: "frame_*", MinCount: 1}
	count, err := check.CheckDir(dir)
	if err != nil {
		t.Fatalf("CheckDir failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 frames, got %d", count)
	}
}

func TestCheckDirEmptyFails(t *testing.T) {
	check := artifacts.Postcondition{Pattern: "frame_*", MinCount: 1}
	count, err := check.CheckDir(t.TempDir())
	if !errors.Is(err, services.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero matches, got %d", count)
	}
}
