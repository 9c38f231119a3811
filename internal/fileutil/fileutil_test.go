package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"waveforge/internal/fileutil"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	payload := []byte("RIFF....WAVE")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("copy mismatch: %q", got)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "seed_0x12345678.wav")
	dst := filepath.Join(dir, "claimed-segment.wav")
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("expected source removed after move")
	}
	if got := fileutil.FileSize(dst); got != int64(len("audio")) {
		t.Fatalf("unexpected destination size: %d", got)
	}
}

func TestFileSizeMissing(t *testing.T) {
	if got := fileutil.FileSize(filepath.Join(t.TempDir(), "missing")); got != 0 {
		t.Fatalf("expected 0 for missing file, got %d", got)
	}
}
