package framegen

import (
	"context"
	"errors"
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

// Client wraps frame renderer CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a frame renderer client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("frame renderer binary required")
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

// Render invokes the renderer inside framesDir. The audio path is made
// absolute first since the tool resolves it from a different working
// directory than the caller's.
func (c *Client) Render(ctx context.Context, framesDir, audioPath, txHash string) error {
	if framesDir == "" {
		return errors.New("frames directory required")
	}
	if audioPath == "" || txHash == "" {
		return errors.New("audio path and hash required")
	}

	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "frames", "resolve audio path", audioPath, err)
	}

	binary := c.binary
	if strings.ContainsRune(binary, filepath.Separator) {
		if abs, err := filepath.Abs(binary); err == nil {
			binary = abs
		}
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	output, err := c.exec.Run(runCtx, framesDir, binary, []string{absAudio, txHash})
	if err != nil {
		return services.Wrap(services.ClassifyToolError(err), "frames", "render",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}
