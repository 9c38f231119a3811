package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"waveforge/internal/artifacts"
	"waveforge/internal/fileutil"
	"waveforge/internal/ledger"
	"waveforge/internal/logging"
	"waveforge/internal/seed"
)

// Metadata is the per-hash record emitted by stage 6.
type Metadata struct {
	TransactionHash string  `json:"transaction_hash"`
	HashedSeed      string  `json:"hashed_seed"`
	GeneratedAt     string  `json:"generated_at"`
	RunID           string  `json:"run_id"`
	DurationSeconds float64 `json:"duration_seconds"`
	VideoFile       string  `json:"video_file"`
	AudioFile       string  `json:"audio_file"`
	SizeMB          float64 `json:"size_mb"`
	Reproducible    bool    `json:"reproducible"`
	Version         string  `json:"version"`
}

// runMetadata emits the JSON record for every item with a finished
// video. A failed duration probe is tolerated and recorded as zero.
func (p *Pipeline) runMetadata(ctx context.Context, force bool) (StageResult, error) {
	result := StageResult{Stage: StageName(StageMetadata)}

	items, err := p.store.ListRun(ctx, p.layout.RunID)
	if err != nil {
		return result, err
	}

	videoCheck := artifacts.Postcondition{MinBytes: p.cfg.Pipeline.MinVideoBytes}
	for _, item := range items {
		itemCtx, log := p.itemContext(ctx, item.TxHash)

		video := item.VideoFile
		if video == "" {
			video = p.layout.VideoFile(item.TxHash)
		}
		if videoCheck.Check(video) != nil {
			result.Skipped++
			log.Debug("video missing, skipping")
			continue
		}

		target := p.layout.MetadataFile(item.TxHash)
		if !force && (artifacts.Postcondition{}).Check(target) == nil {
			result.Skipped++
			log.Debug("metadata already present", logging.String("path", target))
			continue
		}

		result.Attempted++
		seedHex := item.Seed
		if seedHex == "" {
			derived, err := seed.Derive(item.TxHash)
			if err != nil {
				p.failItem(itemCtx, log, item, err)
				continue
			}
			seedHex = derived
		}

		audio := item.ConcatFile
		if audio == "" {
			audio = p.layout.ConcatFile(item.TxHash)
		}
		duration := p.probe.Duration(itemCtx, video)
		size := fileutil.FileSize(video)

		record := Metadata{
			TransactionHash: item.TxHash,
			HashedSeed:      seedHex,
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			RunID:           p.layout.RunID,
			DurationSeconds: duration,
			VideoFile:       video,
			AudioFile:       audio,
			SizeMB:          roundMB(size),
			Reproducible:    true,
			Version:         "optimized",
		}
		if err := writeMetadata(target, record); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		item.MetadataFile = target
		if p.completeItem(itemCtx, log, item, ledger.StatusMetadataReady) {
			result.Succeeded++
			log.Info("metadata ready",
				logging.String("path", target),
				logging.Float64("duration_seconds", duration))
		}
	}
	return result, nil
}

func writeMetadata(path string, record Metadata) error {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata %q: %w", path, err)
	}
	return nil
}

func roundMB(sizeBytes int64) float64 {
	mb := float64(sizeBytes) / (1024 * 1024)
	return math.Round(mb*100) / 100
}
