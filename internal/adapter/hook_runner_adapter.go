package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// DefaultHookTimeout bounds an on-change hook when none is configured.
const DefaultHookTimeout = 2 * time.Minute

// HookRunnerAdapter runs the on-change hook after files were modified.
type HookRunnerAdapter interface {
	// Run executes command with `sh -c` in dir. Returns the combined
	// stdout/stderr output and any error.
	Run(ctx context.Context, dir m.Path, command string) (output string, err error)
}

// LocalHookRunnerAdapter provides a concrete implementation using os/exec.
type LocalHookRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalHookRunnerAdapter constructs a runner; a non-positive timeout
// selects DefaultHookTimeout.
func NewLocalHookRunnerAdapter(timeout time.Duration) *LocalHookRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultHookTimeout
	}

	return &LocalHookRunnerAdapter{timeout: timeout}
}

// Run executes command in dir, killing it when the timeout expires.
func (a *LocalHookRunnerAdapter) Run(ctx context.Context, dir m.Path, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// #nosec G204 - the hook command comes from the project's own config
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = string(dir)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	return output, err
}
