package pipeline

import (
	"context"
	"os"

	"waveforge/internal/artifacts"
	"waveforge/internal/fileutil"
	"waveforge/internal/ledger"
	"waveforge/internal/logging"
)

// runSegments generates the base audio segment for every mapping row.
// Each tool invocation gets a fresh scratch directory; the emitted file
// is resolved there and moved to its canonical per-hash location.
func (p *Pipeline) runSegments(ctx context.Context, force bool) (StageResult, error) {
	result := StageResult{Stage: StageName(StageSegments)}

	rows, err := readMapping(p.layout.MappingFile())
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		itemCtx, log := p.itemContext(ctx, row.Hash)
		target := p.layout.SegmentFile(row.Hash)

		item, err := p.store.Upsert(itemCtx, p.layout.RunID, row.Hash, row.Seed)
		if err != nil {
			result.Attempted++
			p.failItem(itemCtx, log, nil, err)
			continue
		}

		if !force && audioPresence.Check(target) == nil {
			result.Skipped++
			log.Debug("segment already present", logging.String("path", target))
			if item.Status == ledger.StatusPending || item.Status == ledger.StatusFailed {
				item.SegmentFile = target
				p.completeItem(itemCtx, log, item, ledger.StatusSegmentReady)
			}
			continue
		}

		result.Attempted++
		if err := p.layout.EnsureHashDirs(row.Hash); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		scratch, err := p.layout.EnsureScratch(row.Hash)
		if err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		if err := p.segment.Generate(itemCtx, scratch, row.Seed); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}

		resolution, err := artifacts.ResolveSeedArtifact(scratch, row.Seed)
		if err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		if resolution.Fallback {
			log.Warn("expected segment name absent, using fallback match",
				logging.String("path", resolution.Path))
		}

		if err := fileutil.MoveFile(resolution.Path, target); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		if err := audioPresence.Check(target); err != nil {
			p.failItem(itemCtx, log, item, err)
			continue
		}
		_ = os.RemoveAll(scratch)

		item.SegmentFile = target
		if p.completeItem(itemCtx, log, item, ledger.StatusSegmentReady) {
			result.Succeeded++
			log.Info("segment ready", logging.String("path", target))
		}
	}
	return result, nil
}
