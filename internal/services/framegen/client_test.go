package framegen

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"waveforge/internal/services"
)

type fakeExecutor struct {
	dir    string
	args   []string
	output []byte
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, dir, _ string, args []string) ([]byte, error) {
	f.dir = dir
	f.args = append([]string(nil), args...)
	return f.output, f.err
}

func TestRenderRunsInFramesDirWithAbsoluteAudio(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("./generate_frames", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	framesDir := t.TempDir()
	if err := client.Render(context.Background(), framesDir, "audio/track.wav", "0xabc123"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if exec.dir != framesDir {
		t.Fatalf("dir = %q, want frames dir %q", exec.dir, framesDir)
	}
	if len(exec.args) != 2 {
		t.Fatalf("args = %v, want audio and hash", exec.args)
	}
	if !filepath.IsAbs(exec.args[0]) {
		t.Fatalf("audio arg %q is not absolute", exec.args[0])
	}
	if exec.args[1] != "0xabc123" {
		t.Fatalf("hash arg = %q", exec.args[1])
	}
}

func TestRenderClassifiesTimeout(t *testing.T) {
	exec := &fakeExecutor{err: context.DeadlineExceeded}
	client, err := New("./generate_frames", 300, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	renderErr := client.Render(context.Background(), t.TempDir(), "a.wav", "0x1")
	if !errors.Is(renderErr, services.ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", renderErr)
	}
}

func TestRenderValidatesInputs(t *testing.T) {
	client, err := New("./generate_frames", 300, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Render(context.Background(), "", "a.wav", "0x1"); err == nil {
		t.Fatal("expected error for empty frames dir")
	}
	if err := client.Render(context.Background(), t.TempDir(), "", "0x1"); err == nil {
		t.Fatal("expected error for empty audio path")
	}
}
