package testsupport

import (
	"testing"

	"waveforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a validated default config for tests and applies any
// provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithConcatRepeat overrides the concatenation repeat count.
func WithConcatRepeat(repeat int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.ConcatRepeat = repeat
	}
}

// WithTimeouts overrides every stage timeout with the same value, handy
// for tests that exercise timeout classification.
func WithTimeouts(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Timeouts.Segment = seconds
		cfg.Timeouts.Concat = seconds
		cfg.Timeouts.Frames = seconds
		cfg.Timeouts.Video = seconds
		cfg.Timeouts.Probe = seconds
	}
}
