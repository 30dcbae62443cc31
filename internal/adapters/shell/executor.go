// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"os"
	"os/exec"

	"go.trai.ch/obuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor by handing commands to the platform
// shell, the way system(3) would. Stdout and stderr are inherited from the
// driver process; nothing is captured or redirected.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs command through "sh -c" and waits for it. A non-zero exit
// status comes back as an error carrying the exit code.
func (e *Executor) Execute(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // commands come from the build script
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.With(zerr.Wrap(err, "command failed"),
			"command", command), "exit_code", exitCode)
		e.logger.Error(err)
		return err
	}
	return nil
}
