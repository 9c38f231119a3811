// Package run resolves run identifiers and owns the run-scoped directory
// layout every stage reads and writes through. Artifacts only ever cross
// stage boundaries via these paths, which is what lets an operator re-run
// any single stage against an existing run.
package run

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IDTimeFormat is the compact timestamp used for generated run identifiers.
const IDTimeFormat = "20060102_150405"

// ResolveID returns the operator-supplied identifier verbatim, or derives
// one from the wall clock at seconds resolution.
func ResolveID(explicit string, now time.Time) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	return now.Format(IDTimeFormat)
}

// Layout computes every artifact path for one run under a base output
// directory. All paths are deterministic functions of (run, stage, hash).
type Layout struct {
	BaseDir string
	RunID   string
}

// NewLayout builds a layout rooted at baseDir for the given run.
func NewLayout(baseDir, runID string) Layout {
	return Layout{BaseDir: baseDir, RunID: runID}
}

func (l Layout) runDirName() string {
	return "run_" + l.RunID
}

// HashesDir is the run-independent directory holding mapping files.
func (l Layout) HashesDir() string {
	return filepath.Join(l.BaseDir, "hashes")
}

// MappingFile is the stage-1 output for this run.
func (l Layout) MappingFile() string {
	return filepath.Join(l.HashesDir(), l.runDirName()+".csv")
}

// WavDir is the per-run root for audio artifacts.
func (l Layout) WavDir() string {
	return filepath.Join(l.BaseDir, "wav", l.runDirName())
}

// HashWavDir is the per-hash audio directory.
func (l Layout) HashWavDir(hash string) string {
	return filepath.Join(l.WavDir(), hash)
}

// SegmentFile is the per-hash segment artifact produced by stage 2.
func (l Layout) SegmentFile(hash string) string {
	return filepath.Join(l.HashWavDir(hash), hash+"-segment.wav")
}

// ConcatFile is the per-hash concatenated artifact produced by stage 3.
func (l Layout) ConcatFile(hash string) string {
	return filepath.Join(l.HashWavDir(hash), hash+"-concat.wav")
}

// FramesDir is the per-run root for frame artifacts.
func (l Layout) FramesDir() string {
	return filepath.Join(l.BaseDir, "frames", l.runDirName())
}

// HashFramesDir is the isolated per-hash frame directory used as the frame
// renderer's working directory.
func (l Layout) HashFramesDir(hash string) string {
	return filepath.Join(l.FramesDir(), hash)
}

// VideoDir is the per-run root for assembled videos.
func (l Layout) VideoDir() string {
	return filepath.Join(l.BaseDir, "video", l.runDirName())
}

// VideoFile is the per-hash final video.
func (l Layout) VideoFile(hash string) string {
	return filepath.Join(l.VideoDir(), hash+".mp4")
}

// JSONDir is the run-independent metadata directory.
func (l Layout) JSONDir() string {
	return filepath.Join(l.BaseDir, "json")
}

// MetadataFile is the per-hash metadata record.
func (l Layout) MetadataFile(hash string) string {
	return filepath.Join(l.JSONDir(), hash+".json")
}

// ScratchDir is the per-run root for isolated tool scratch directories.
func (l Layout) ScratchDir() string {
	return filepath.Join(l.BaseDir, "scratch", l.runDirName())
}

// HashScratchDir is the isolated working directory handed to the segment
// generator for one hash. Scoping the drop zone per invocation removes the
// shared-working-directory hazard of the original convention.
func (l Layout) HashScratchDir(hash string) string {
	return filepath.Join(l.ScratchDir(), hash)
}

// LedgerPath is the run-independent state database.
func (l Layout) LedgerPath() string {
	return filepath.Join(l.BaseDir, "ledger.db")
}

// LockPath is the workspace lock guarding against concurrent pipeline
// instances sharing one output directory.
func (l Layout) LockPath() string {
	return filepath.Join(l.BaseDir, ".waveforge.lock")
}

// EnsureBase creates the base directory tree shared by every stage.
// Creation is idempotent so re-invoking against an existing run is safe.
func (l Layout) EnsureBase() error {
	for _, dir := range []string{l.BaseDir, l.HashesDir(), l.WavDir(), l.FramesDir(), l.VideoDir(), l.JSONDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnsureHashDirs creates the per-hash directories stage runners write into.
func (l Layout) EnsureHashDirs(hash string) error {
	for _, dir := range []string{l.HashWavDir(hash), l.HashFramesDir(hash)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnsureScratch creates and returns a clean scratch directory for one hash.
// Leftovers from a previous attempt are removed so the resolver never
// matches a stale artifact.
func (l Layout) EnsureScratch(hash string) (string, error) {
	dir := l.HashScratchDir(hash)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clear scratch %q: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch %q: %w", dir, err)
	}
	return dir, nil
}
