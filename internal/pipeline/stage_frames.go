package pipeline

import (
	"context"

	"waveforge/internal/artifacts"
	"waveforge/internal/ledger"
	"waveforge/internal/logging"
)

// framePattern matches the renderer's numbered output sequence.
const framePattern = "frame_*"

// runFrames renders the frame sequence for every item whose concatenated
// audio exists. Success requires a clean tool exit and at least one
// emitted frame.
func (p *Pipeline) runFrames(ctx context.Context, force bool) (StageResult, error) {
	result := StageResult{Stage: StageName(StageFrames)}

	items, err := p.store.ListRun(ctx, p.layout.RunID)
	if err != nil {
		return result, err
	}

	check := artifacts.Postcondition{Pattern: framePattern, MinCount: 1}
	for _, item := range items {
		itemCtx, log := p.itemContext(ctx, item.TxHash)

		audio := item.ConcatFile
		if audio == "" {
			audio = p.layout.ConcatFile(item.TxHash)
		}
		if audioPresence.Check(audio) != nil {
			result.Skipped++
			log.Debug("concat missing, skipping", logging.String("path", audio))
			continue
		}

		framesDir := p.layout.HashFramesDir(item.TxHash)
		if !force {
			if count, err := check.CheckDir(framesDir); err == nil {
				result.Skipped++
				log.Debug("frames already present",
					logging.String("path", framesDir),
					logging.Int("count", count))
				continue
			}
		}

		result.Attempted++
		if err := p.layout.EnsureHashDirs(item.TxHash); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		if err := p.frames.Render(itemCtx, framesDir, audio, item.TxHash); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		count, err := check.CheckDir(framesDir)
		if err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		item.FramesDir = framesDir
		item.FrameCount = count
		if p.completeItem(itemCtx, log, item, ledger.StatusFramesReady) {
			result.Succeeded++
			log.Info("frames ready",
				logging.String("path", framesDir),
				logging.Int("count", count))
		}
	}
	return result, nil
}
