package pipeline

import (
	"context"

	"waveforge/internal/ledger"
	"waveforge/internal/logging"
)

// runConcat joins the configured number of segment copies into the long
// audio track for every item whose segment exists on disk.
func (p *Pipeline) runConcat(ctx context.Context, force bool) (StageResult, error) {
	result := StageResult{Stage: StageName(StageConcat)}

	items, err := p.store.ListRun(ctx, p.layout.RunID)
	if err != nil {
		return result, err
	}

	for _, item := range items {
		itemCtx, log := p.itemContext(ctx, item.TxHash)

		source := item.SegmentFile
		if source == "" {
			source = p.layout.SegmentFile(item.TxHash)
		}
		if audioPresence.Check(source) != nil {
			result.Skipped++
			log.Debug("segment missing, skipping", logging.String("path", source))
			continue
		}

		target := p.layout.ConcatFile(item.TxHash)
		if !force && audioPresence.Check(target) == nil {
			result.Skipped++
			log.Debug("concat already present", logging.String("path", target))
			continue
		}

		result.Attempted++
		if err := p.concat.Concat(itemCtx, source, target, p.cfg.Pipeline.ConcatRepeat); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		if err := audioPresence.Check(target); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		item.ConcatFile = target
		if p.completeItem(itemCtx, log, item, ledger.StatusConcatReady) {
			result.Succeeded++
			log.Info("concat ready",
				logging.String("path", target),
				logging.Int("repeat", p.cfg.Pipeline.ConcatRepeat))
		}
	}
	return result, nil
}
