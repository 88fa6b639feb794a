// Package runner invokes the external dependency-query binary and captures
// its output. The binary is an opaque collaborator: depgate hands it a
// selector plus flags and reads back text.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aidanlsb/depgate/internal/shellquote"
)

// DefaultTimeout bounds a single query invocation.
const DefaultTimeout = 2 * time.Minute

// Runner executes queries against one configured binary.
type Runner struct {
	// Binary is the executable to invoke, resolved via PATH if relative.
	Binary string

	// Args are leading arguments inserted before the query, e.g. a
	// subcommand like "query".
	Args []string

	// Dir is the working directory for the invocation. Empty means the
	// current directory.
	Dir string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Invocation is the captured outcome of one query run.
type Invocation struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// ErrBinaryNotSet indicates no query binary was configured.
var ErrBinaryNotSet = errors.New("no query binary configured")

// CommandLine renders the full invocation for display, quoting arguments
// the way a shell would need them.
func (r *Runner) CommandLine(queryArgs []string) string {
	parts := make([]string, 0, 1+len(r.Args)+len(queryArgs))
	parts = append(parts, r.Binary)
	parts = append(parts, r.Args...)
	parts = append(parts, queryArgs...)
	return shellquote.Join(parts)
}

// Run invokes the binary with the given query arguments (selector first,
// then flags). A non-zero exit is not an error here: the invocation is
// returned with its exit code and the caller decides how to report it.
// An error means the process could not be run at all or timed out.
func (r *Runner) Run(ctx context.Context, queryArgs []string) (Invocation, error) {
	var inv Invocation

	if strings.TrimSpace(r.Binary) == "" {
		return inv, ErrBinaryNotSet
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := make([]string, 0, len(r.Args)+len(queryArgs))
	args = append(args, r.Args...)
	args = append(args, queryArgs...)

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	inv.Duration = time.Since(start)
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()

	if err == nil {
		return inv, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		inv.TimedOut = true
		return inv, fmt.Errorf("query timed out after %s", timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}

	return inv, fmt.Errorf("failed to run %s: %w", r.Binary, err)
}
