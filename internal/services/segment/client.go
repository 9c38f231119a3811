package segment

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

// Client wraps segment generator CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a segment generator client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("segment binary required")
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

// Generate invokes the generator with the seed as its sole argument,
// running inside scratchDir so the emitted file lands there.
func (c *Client) Generate(ctx context.Context, scratchDir, seedHex string) error {
	if scratchDir == "" {
		return errors.New("scratch directory required")
	}
	if strings.TrimSpace(seedHex) == "" {
		return errors.New("seed required")
	}

	// The command runs with the scratch directory as cwd, so a relative
	// binary path must be pinned before the switch.
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

	output, err := c.exec.Run(runCtx, scratchDir, binary, []string{seedHex})
	if err != nil {
		return services.Wrap(services.ClassifyToolError(err), "segments", "generate",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}
