package runner

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests shell out to /bin/sh")
	}
}

func TestRunCapturesStdout(t *testing.T) {
	skipWithoutShell(t)
	r := &Runner{Binary: "/bin/sh", Args: []string{"-c", `echo "$0 $1"`}}
	inv, err := r.Run(context.Background(), []string{":malware", "--view=json"})
	if err != nil {
		t.Fatal(err)
	}
	if inv.ExitCode != 0 {
		t.Errorf("exit code = %d", inv.ExitCode)
	}
	if got := strings.TrimSpace(inv.Stdout); got != ":malware --view=json" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunReturnsNonZeroExitWithoutError(t *testing.T) {
	skipWithoutShell(t)
	r := &Runner{Binary: "/bin/sh", Args: []string{"-c", "echo oops >&2; exit 3"}}
	inv, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}
	if inv.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", inv.ExitCode)
	}
	if !strings.Contains(inv.Stderr, "oops") {
		t.Errorf("stderr = %q", inv.Stderr)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Binary: "depgate-test-binary-that-does-not-exist"}
	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestRunEmptyBinary(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), nil)
	if !errors.Is(err, ErrBinaryNotSet) {
		t.Fatalf("err = %v, want ErrBinaryNotSet", err)
	}
}

func TestRunTimeout(t *testing.T) {
	skipWithoutShell(t)
	r := &Runner{Binary: "/bin/sh", Args: []string{"-c", "sleep 5"}, Timeout: 50 * time.Millisecond}
	inv, err := r.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !inv.TimedOut {
		t.Error("invocation should be marked timed out")
	}
}

func TestCommandLine(t *testing.T) {
	r := &Runner{Binary: "depquery", Args: []string{"query"}}
	got := r.CommandLine([]string{":malware", "--scope=:root > *"})
	want := `depquery query :malware '--scope=:root > *'`
	if got != want {
		t.Errorf("CommandLine = %q, want %q", got, want)
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	r := &Runner{Binary: "/bin/sh", Args: []string{"-c", "pwd"}, Dir: dir}
	inv, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(inv.Stdout); got != resolved && got != dir {
		t.Errorf("pwd = %q, want %q", got, resolved)
	}
}
