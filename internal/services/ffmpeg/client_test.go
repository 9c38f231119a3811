package ffmpeg

import (
	"context"
	"errors"
	"strings"
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

func TestMuxBuildsExpectedArguments(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("ffmpeg", 120, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	framesDir := t.TempDir()
	if err := client.Mux(context.Background(), framesDir, "audio.wav", "out.mp4", 60); err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if exec.dir != framesDir {
		t.Fatalf("dir = %q, want frames dir", exec.dir)
	}

	joined := strings.Join(exec.args, " ")
	for _, want := range []string{
		"-y",
		"-r 60",
		"-i frame_%04d.ppm",
		"-c:v libx264",
		"-c:a aac",
		"-pix_fmt yuv420p",
		"-shortest",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
	if exec.args[0] != "-y" {
		t.Fatalf("first arg = %q, want -y", exec.args[0])
	}
}

func TestMuxReportsExitFailure(t *testing.T) {
	exec := &fakeExecutor{output: []byte("conversion failed"), err: errors.New("exit status 1")}
	client, err := New("ffmpeg", 120, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	muxErr := client.Mux(context.Background(), t.TempDir(), "a.wav", "out.mp4", 60)
	if !errors.Is(muxErr, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", muxErr)
	}
}

func TestMuxRejectsInvalidFrameRate(t *testing.T) {
	client, err := New("ffmpeg", 120, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Mux(context.Background(), t.TempDir(), "a.wav", "out.mp4", 0); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}

func TestTailKeepsLastLines(t *testing.T) {
	input := "a\nb\nc\nd\ne\nf\ng"
	got := tail(input)
	if got != "c\nd\ne\nf\ng" {
		t.Fatalf("tail = %q", got)
	}
	if tail("one\ntwo") != "one\ntwo" {
		t.Fatal("short output should pass through unchanged")
	}
}
