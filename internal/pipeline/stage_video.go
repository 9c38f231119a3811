package pipeline

import (
	"context"

	"waveforge/internal/artifacts"
	"waveforge/internal/ledger"
	"waveforge/internal/logging"
)

// runVideo muxes frames and audio into the final mp4 for every item with
// both prerequisites on disk. The multiplexer's exit status is advisory:
// an output that exists and clears the size floor counts as success even
// when the tool exited nonzero.
func (p *Pipeline) runVideo(ctx context.Context, force bool) (StageResult, error) {
	result := StageResult{Stage: StageName(StageVideo)}

	items, err := p.store.ListRun(ctx, p.layout.RunID)
	if err != nil {
		return result, err
	}

	frameCheck := artifacts.Postcondition{Pattern: framePattern, MinCount: 1}
	videoCheck := artifacts.Postcondition{MinBytes: p.cfg.Pipeline.MinVideoBytes}
	for _, item := range items {
		itemCtx, log := p.itemContext(ctx, item.TxHash)

		audio := item.ConcatFile
		if audio == "" {
			audio = p.layout.ConcatFile(item.TxHash)
		}
		framesDir := item.FramesDir
		if framesDir == "" {
			framesDir = p.layout.HashFramesDir(item.TxHash)
		}
		if audioPresence.Check(audio) != nil {
			result.Skipped++
			log.Debug("concat missing, skipping")
			continue
		}
		if _, err := frameCheck.CheckDir(framesDir); err != nil {
			result.Skipped++
			log.Debug("frames missing, skipping")
			continue
		}

		target := p.layout.VideoFile(item.TxHash)
		if !force && videoCheck.Check(target) == nil {
			result.Skipped++
			log.Debug("video already present", logging.String("path", target))
			continue
		}

		result.Attempted++
		muxErr := p.video.Mux(itemCtx, framesDir, audio, target, p.cfg.Pipeline.FrameRate)
		if err := videoCheck.Check(target); err != nil {
			if muxErr != nil {
				p.failItem(itemCtx, log, item, muxErr)
			} else {
				p.failItem(itemCtx, log, item, err)
			}
			continue
		}
		if muxErr != nil {
			log.Warn("multiplexer exited nonzero but output verifies", logging.Error(muxErr))
		}

		item.VideoFile = target
		if p.completeItem(itemCtx, log, item, ledger.StatusVideoReady) {
			result.Succeeded++
			log.Info("video ready", logging.String("path", target))
		}
	}
	return result, nil
}
