package run_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"waveforge/internal/run"
)

func TestResolveID(t *testing.T) {
	now := time.Date(2025, 8, 17, 10, 11, 42, 0, time.UTC)
	if got := run.ResolveID("", now); got != "20250817_101142" {
		t.Fatalf("derived run id = %q", got)
	}
	if got := run.ResolveID("custom_run", now); got != "custom_run" {
		t.Fatalf("explicit run id = %q", got)
	}
	if got := run.ResolveID("  padded  ", now); got != "padded" {
		t.Fatalf("trimmed run id = %q", got)
	}
}

func TestLayoutPaths(t *testing.T) {
	l := run.NewLayout("/out", "r1")
	const hash = "0xabc"

	cases := []struct {
		got  string
		want string
	}{
		{l.MappingFile(), "/out/hashes/run_r1.csv"},
		{l.SegmentFile(hash), "/out/wav/run_r1/0xabc/0xabc-segment.wav"},
		{l.ConcatFile(hash), "/out/wav/run_r1/0xabc/0xabc-concat.wav"},
		{l.HashFramesDir(hash), "/out/frames/run_r1/0xabc"},
		{l.VideoFile(hash), "/out/video/run_r1/0xabc.mp4"},
		{l.MetadataFile(hash), "/out/json/0xabc.json"},
		{l.LedgerPath(), "/out/ledger.db"},
	}
	for _, tc := range cases {
		if filepath.ToSlash(tc.got) != tc.want {
			t.Fatalf("path = %q, want %q", tc.got, tc.want)
		}
	}
}

func TestEnsureBaseIdempotent(t *testing.T) {
	l := run.NewLayout(t.TempDir(), "r1")
	if err := l.EnsureBase(); err != nil {
		t.Fatalf("EnsureBase failed: %v", err)
	}
	// Second call against the existing tree must not fail.
	if err := l.EnsureBase(); err != nil {
		t.Fatalf("EnsureBase not idempotent: %v", err)
	}
	for _, dir := range []string{l.HashesDir(), l.WavDir(), l.FramesDir(), l.VideoDir(), l.JSONDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestEnsureScratchClearsLeftovers(t *testing.T) {
	l := run.NewLayout(t.TempDir(), "r1")
	dir, err := l.EnsureScratch("0xabc")
	if err != nil {
		t.Fatalf("EnsureScratch failed: %v", err)
	}
	stale := filepath.Join(dir, "seed_0xdeadbeef.wav")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	dir, err = l.EnsureScratch("0xabc")
	if err != nil {
		t.Fatalf("EnsureScratch failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "seed_0xdeadbeef.wav")); !os.IsNotExist(err) {
		t.Fatal("expected stale scratch artifact removed")
	}
}
