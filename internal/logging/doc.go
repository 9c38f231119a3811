// Package logging centralizes slog construction and the structured field
// conventions used across the pipeline. Stage runners never build their
// own loggers; they derive them from context so run, hash, and stage
// fields stay consistent between console output and log files.
package logging
