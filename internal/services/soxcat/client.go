package soxcat

import (
	"context"
	"errors"
	"fmt"
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

// Client wraps concatenation tool CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a concatenation client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("concatenation binary required")
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

// Concat joins repeat copies of input into output.
func (c *Client) Concat(ctx context.Context, input, output string, repeat int) error {
	if input == "" || output == "" {
		return errors.New("input and output paths required")
	}
	if repeat < 1 {
		return fmt.Errorf("repeat count must be at least 1, got %d", repeat)
	}

	args := make([]string, 0, repeat+1)
	for i := 0; i < repeat; i++ {
		args = append(args, input)
	}
	args = append(args, output)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.exec.Run(runCtx, "", c.binary, args)
	if err != nil {
		return services.Wrap(services.ClassifyToolError(err), "concat", "join segments",
			strings.TrimSpace(string(out)), err)
	}
	return nil
}
