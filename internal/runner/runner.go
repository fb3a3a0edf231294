// Package runner executes the fan-out command in a single directory
// through a shell and captures everything it prints.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/srgsanky/recursive-runner/internal/types"
)

// Defaults applied when the corresponding Runner field is empty.
const (
	DefaultShell = "sh"
	DefaultTerm  = "xterm-256color"
)

// Runner runs a command string via `<Shell> -c` in a target directory.
type Runner struct {
	Shell   string        // shell binary, resolved via PATH
	Term    string        // TERM value forced on the child
	Timeout time.Duration // zero means no deadline
	Env     []string      // extra KEY=VALUE pairs for the child
}

// Run spawns exactly one child and waits for it. Failure to start the
// shell is reported as a launch-failed outcome, never as an error.
func (r *Runner) Run(ctx context.Context, command, dir string) types.Outcome {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}
	termType := r.Term
	if termType == "" {
		termType = DefaultTerm
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = dir
	cmd.Env = childEnv(os.Environ(), dir, termType, r.Env)
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr == nil {
		return types.Completed(0, stdout.Bytes(), stderr.Bytes())
	}
	if errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		// The shell exited but something it started kept the pipes open
		return types.Completed(cmd.ProcessState.ExitCode(), stdout.Bytes(), stderr.Bytes())
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		// Shell not found, bad working directory, or similar
		return types.LaunchFailed(fmt.Errorf("%s: %w", shell, runErr))
	}

	outcome := types.Completed(exitErr.ExitCode(), stdout.Bytes(), stderr.Bytes())
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		outcome.TimedOut = true
	}
	if outcome.ExitCode < 0 {
		outcome.Signal = "unknown signal"
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			outcome.Signal = signalName(status)
		}
	}
	return outcome
}

// childEnv returns base with TERM and PWD replaced and extra appended.
// os/exec only sets PWD itself when Cmd.Env is nil.
func childEnv(base []string, dir, termType string, extra []string) []string {
	env := make([]string, 0, len(base)+len(extra)+2)
	for _, kv := range base {
		if strings.HasPrefix(kv, "TERM=") || strings.HasPrefix(kv, "PWD=") {
			continue
		}
		env = append(env, kv)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		env = append(env, "PWD="+abs)
	}
	env = append(env, "TERM="+termType)
	return append(env, extra...)
}
