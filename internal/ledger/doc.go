// Package ledger persists per-hash pipeline state in SQLite alongside the
// run outputs. Each (run, hash) pair owns one row tracking which stage
// artifacts exist, so later stages consult a single record instead of
// re-deriving readiness from filesystem scans. The database lives inside
// the output directory, which keeps state portable with the artifacts it
// describes.
package ledger
