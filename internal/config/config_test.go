package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waveforge/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Pipeline.ConcatRepeat != 6 {
		t.Fatalf("unexpected default concat repeat: %d", cfg.Pipeline.ConcatRepeat)
	}
	if cfg.Timeouts.Frames != 300 {
		t.Fatalf("unexpected default frames timeout: %d", cfg.Timeouts.Frames)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Tools.SoxBinary != "sox" {
		t.Fatalf("expected default sox binary, got %q", cfg.Tools.SoxBinary)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[tools]
segment_binary = "/opt/bin/segment"

[pipeline]
concat_repeat = 4

[timeouts]
video = 240
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected resolved existing config, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Tools.SegmentBinary != "/opt/bin/segment" {
		t.Fatalf("override not applied: %q", cfg.Tools.SegmentBinary)
	}
	if cfg.Pipeline.ConcatRepeat != 4 {
		t.Fatalf("override not applied: %d", cfg.Pipeline.ConcatRepeat)
	}
	if cfg.Timeouts.Video != 240 {
		t.Fatalf("override not applied: %d", cfg.Timeouts.Video)
	}
	// Untouched fields keep defaults.
	if cfg.Timeouts.Segment != 30 {
		t.Fatalf("default lost: %d", cfg.Timeouts.Segment)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero timeout", func(c *config.Config) { c.Timeouts.Segment = 0 }},
		{"negative timeout", func(c *config.Config) { c.Timeouts.Probe = -1 }},
		{"repeat too small", func(c *config.Config) { c.Pipeline.ConcatRepeat = 0 }},
		{"repeat too large", func(c *config.Config) { c.Pipeline.ConcatRepeat = 65 }},
		{"zero frame rate", func(c *config.Config) { c.Pipeline.FrameRate = 0 }},
		{"zero size floor", func(c *config.Config) { c.Pipeline.MinVideoBytes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "concat_repeat") {
		t.Fatal("sample config missing pipeline section")
	}

	// The sample must load back cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
