package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// CommandSpec describes one external invocation.
type CommandSpec struct {
	Name   string
	Args   []string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner runs an external command to completion.
// This abstraction allows mocking command execution in tests.
type CommandRunner interface {
	// Run blocks until the command exits and returns its exit code.
	// A non-nil error means the command could not be launched or was
	// terminated without a usable exit status.
	Run(ctx context.Context, spec *CommandSpec) (exitCode int, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes the command, wiring the child's stdout/stderr to the
// spec's writers.
func (ExecRunner) Run(ctx context.Context, spec *CommandSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Env = spec.Env
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Verify ExecRunner implements CommandRunner at compile time.
var _ CommandRunner = ExecRunner{}
