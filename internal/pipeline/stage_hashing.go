package pipeline

import (
	"context"
	"fmt"

	"waveforge/internal/logging"
	"waveforge/internal/seed"
)

// runHashing derives a seed per input hash and writes the mapping file
// that anchors the rest of the run.
func (p *Pipeline) runHashing(ctx context.Context, params Params) (StageResult, error) {
	result := StageResult{Stage: StageName(StageHashing)}

	hashes, err := readInputHashes(params.InputCSV, params.MaxCount)
	if err != nil {
		return result, err
	}

	rows := make([]MappingRow, 0, len(hashes))
	for _, hash := range hashes {
		result.Attempted++
		itemCtx, log := p.itemContext(ctx, hash)

		seedHex, err := seed.Derive(hash)
		if err != nil {
			item, _ := p.store.Upsert(itemCtx, p.layout.RunID, hash, "")
			p.failItem(itemCtx, log, item, err)
			continue
		}

		if _, err := p.store.Upsert(itemCtx, p.layout.RunID, hash, seedHex); err != nil {
			p.failItem(itemCtx, log, nil, err)
			continue
		}

		rows = append(rows, MappingRow{
			Hash:        hash,
			Seed:        seedHex,
			Description: p.describe(hash),
		})
		result.Succeeded++
		log.Debug("seed derived", logging.String(logging.FieldSeed, seedHex))
	}

	if err := writeMapping(p.layout.MappingFile(), rows); err != nil {
		return result, err
	}
	return result, nil
}

func (p *Pipeline) describe(hash string) string {
	short := hash
	if len(short) > 10 {
		short = short[:10]
	}
	return fmt.Sprintf("%s %s...", p.cfg.Pipeline.DescriptionPrefix, short)
}
