package services

import (
	"context"
	"os/exec"
)

// CommandExecutor runs external tools with a working directory and returns
// combined output. It is the default Executor implementation shared by the
// tool clients; tests inject fakes instead.
type CommandExecutor struct{}

// Run executes binary with args inside dir. An empty dir inherits the
// process working directory.
func (CommandExecutor) Run(ctx context.Context, dir, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd.CombinedOutput()
}
