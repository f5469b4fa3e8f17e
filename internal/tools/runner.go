package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrToolFailed is returned when an external tool cannot be run or exits non-zero.
var ErrToolFailed = errors.New("tool failed")

// Runner executes an external tool and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools as child processes.
type ExecRunner struct {
	// Timeout bounds a single invocation; zero means no limit besides ctx.
	Timeout time.Duration
}

// NewExecRunner creates a runner with the per-invocation timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		Timeout: timeout,
	}
}

// Output runs the tool and returns stdout. Stderr is attached to the error.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		command := strings.TrimSpace(name + " " + strings.Join(args, " "))
		if details := strings.TrimSpace(stderr.String()); details != "" {
			return nil, fmt.Errorf("%w: %s: %w: %s", ErrToolFailed, command, err, details)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrToolFailed, command, err)
	}

	return output, nil
}
