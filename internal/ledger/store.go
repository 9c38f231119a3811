package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages pipeline state persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts a row for (run, hash) or refreshes its seed if it already
// exists. Existing status and artifact fields are preserved so re-running
// stage 1 against a live run does not reset progress.
func (s *Store) Upsert(ctx context.Context, runID, txHash, seedValue string) (*Item, error) {
	if runID == "" || txHash == "" {
		return nil, errors.New("run id and hash are required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO pipeline_items (run_id, tx_hash, seed, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (run_id, tx_hash)
         DO UPDATE SET seed = excluded.seed, updated_at = excluded.updated_at`,
		runID,
		txHash,
		nullableString(seedValue),
		StatusPending,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert item: %w", err)
	}
	return s.Get(ctx, runID, txHash)
}

// Get fetches one item by (run, hash). Returns nil when absent.
func (s *Store) Get(ctx context.Context, runID, txHash string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM pipeline_items WHERE run_id = ? AND tx_hash = ?`,
		runID,
		txHash,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListRun returns every item for a run in insertion order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM pipeline_items WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update persists changes to an existing item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE pipeline_items
         SET seed = ?, status = ?, segment_file = ?, concat_file = ?,
             frames_dir = ?, frame_count = ?, video_file = ?, metadata_file = ?,
             error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.Seed),
		item.Status,
		nullableString(item.SegmentFile),
		nullableString(item.ConcatFile),
		nullableString(item.FramesDir),
		item.FrameCount,
		nullableString(item.VideoFile),
		nullableString(item.MetadataFile),
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Stats returns a count of a run's items grouped by status.
func (s *Store) Stats(ctx context.Context, runID string) (map[Status]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, COUNT(1) FROM pipeline_items WHERE run_id = ? GROUP BY status`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Runs returns the distinct run identifiers present in the ledger, newest
// first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id FROM pipeline_items GROUP BY run_id ORDER BY MAX(created_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, err
		}
		runs = append(runs, runID)
	}
	return runs, rows.Err()
}

const itemColumns = "id, run_id, tx_hash, seed, status, segment_file, concat_file, frames_dir, frame_count, video_file, metadata_file, error_message, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id           int64
		runID        string
		txHash       string
		seedValue    sql.NullString
		statusStr    string
		segmentFile  sql.NullString
		concatFile   sql.NullString
		framesDir    sql.NullString
		frameCount   sql.NullInt64
		videoFile    sql.NullString
		metadataFile sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&txHash,
		&seedValue,
		&statusStr,
		&segmentFile,
		&concatFile,
		&framesDir,
		&frameCount,
		&videoFile,
		&metadataFile,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:           id,
		RunID:        runID,
		TxHash:       txHash,
		Seed:         seedValue.String,
		Status:       Status(statusStr),
		SegmentFile:  segmentFile.String,
		ConcatFile:   concatFile.String,
		FramesDir:    framesDir.String,
		FrameCount:   int(frameCount.Int64),
		VideoFile:    videoFile.String,
		MetadataFile: metadataFile.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
