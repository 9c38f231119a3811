package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"waveforge/internal/services"
)

// MappingRow is one line of the stage-1 mapping file tying a transaction
// hash to its derived seed.
type MappingRow struct {
	Hash        string
	Seed        string
	Description string
}

var mappingHeader = []string{"original_hash", "hashed_seed", "description"}

// looksLikeHeader reports whether a first CSV cell is a column label
// rather than data.
func looksLikeHeader(cell string) bool {
	lowered := strings.ToLower(cell)
	return strings.Contains(lowered, "transaction") || strings.Contains(lowered, "hash")
}

// readInputHashes loads up to maxCount transaction hashes from the first
// column of the input CSV. A header row is skipped heuristically and
// blank cells are dropped.
func readInputHashes(path string, maxCount int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "hashing", "open input", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "hashing", "parse input", path, err)
	}

	var hashes []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])
		if cell == "" {
			continue
		}
		if i == 0 && looksLikeHeader(cell) {
			continue
		}
		hashes = append(hashes, cell)
		if maxCount > 0 && len(hashes) >= maxCount {
			break
		}
	}
	return hashes, nil
}

// writeMapping persists the stage-1 mapping file.
func writeMapping(path string, rows []MappingRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mapping %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(mappingHeader); err != nil {
		return fmt.Errorf("write mapping header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Hash, row.Seed, row.Description}); err != nil {
			return fmt.Errorf("write mapping row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush mapping: %w", err)
	}
	return nil
}

// readMapping loads the stage-1 mapping file. Malformed rows are skipped
// silently so a hand-edited file does not wedge the run.
func readMapping(path string) ([]MappingRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrArtifactMissing, "", "open mapping",
			fmt.Sprintf("%s (run stage 1 first)", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "parse mapping", path, err)
	}

	var rows []MappingRow
	for i, record := range records {
		if len(record) < 2 {
			continue
		}
		hash := strings.TrimSpace(record[0])
		seedValue := strings.TrimSpace(record[1])
		if hash == "" || seedValue == "" {
			continue
		}
		if i == 0 && looksLikeHeader(hash) {
			continue
		}
		row := MappingRow{Hash: hash, Seed: seedValue}
		if len(record) > 2 {
			row.Description = strings.TrimSpace(record[2])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
