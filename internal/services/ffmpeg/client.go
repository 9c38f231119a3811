package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"waveforge/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, dir, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an ffmpeg client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Mux assembles the frame sequence in framesDir with audioPath into
// outputPath. The command runs inside framesDir so the frame pattern
// resolves relative to it. A non-zero exit is returned to the caller,
// who decides whether the emitted file is still usable.
func (c *Client) Mux(ctx context.Context, framesDir, audioPath, outputPath string, frameRate int) error {
	if framesDir == "" {
		return errors.New("frames directory required")
	}
	if audioPath == "" || outputPath == "" {
		return errors.New("audio and output paths required")
	}
	if frameRate < 1 {
		return fmt.Errorf("frame rate must be at least 1, got %d", frameRate)
	}

	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "video", "resolve audio path", audioPath, err)
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "video", "resolve output path", outputPath, err)
	}

	args := []string{
		"-y",
		"-r", fmt.Sprintf("%d", frameRate),
		"-i", "frame_%04d.ppm",
		"-i", absAudio,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-shortest",
		absOutput,
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	output, err := c.exec.Run(runCtx, framesDir, c.binary, args)
	if err != nil {
		return services.Wrap(services.ClassifyToolError(err), "video", "mux",
			tail(string(output)), err)
	}
	return nil
}

// tail keeps the last few lines of tool output, where ffmpeg reports
// the actual failure.
func tail(output string) string {
	output = strings.TrimSpace(output)
	lines := strings.Split(output, "\n")
	if len(lines) <= 5 {
		return output
	}
	return strings.Join(lines[len(lines)-5:], "\n")
}
