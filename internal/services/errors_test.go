package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"waveforge/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "segments", "generate", "tool failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	if !strings.Contains(err.Error(), "segments: generate: tool failed") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "video", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestClassifyToolError(t *testing.T) {
	if got := services.ClassifyToolError(nil); got != nil {
		t.Fatalf("expected nil classification, got %v", got)
	}
	if got := services.ClassifyToolError(context.DeadlineExceeded); !errors.Is(got, services.ErrTimeout) {
		t.Fatalf("expected timeout classification, got %v", got)
	}
	if got := services.ClassifyToolError(errors.New("exit status 2")); !errors.Is(got, services.ErrExternalTool) {
		t.Fatalf("expected external tool classification, got %v", got)
	}
}
