package ledger

const schema = `
CREATE TABLE IF NOT EXISTS pipeline_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    tx_hash TEXT NOT NULL,
    seed TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    segment_file TEXT,
    concat_file TEXT,
    frames_dir TEXT,
    frame_count INTEGER NOT NULL DEFAULT 0,
    video_file TEXT,
    metadata_file TEXT,
    error_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (run_id, tx_hash)
);

CREATE INDEX IF NOT EXISTS idx_pipeline_items_run_status
    ON pipeline_items (run_id, status);
`
