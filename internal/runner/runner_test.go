package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/srgsanky/recursive-runner/internal/types"
)

func newTestRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	return &Runner{}, t.TempDir()
}

func TestRun_Success(t *testing.T) {
	r, dir := newTestRunner(t)

	out := r.Run(context.Background(), "echo ok", dir)
	if out.Kind != types.OutcomeCompleted {
		t.Fatalf("Kind = %v, want completed (err: %s)", out.Kind, out.Err)
	}
	if !out.Succeeded() {
		t.Errorf("Succeeded() = false, want true")
	}
	if got := string(out.Stdout); got != "ok\n" {
		t.Errorf("Stdout = %q, want %q", got, "ok\n")
	}
	if len(out.Stderr) != 0 {
		t.Errorf("Stderr = %q, want empty", out.Stderr)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	r, dir := newTestRunner(t)

	out := r.Run(context.Background(), "echo bad >&2; exit 2", dir)
	if out.Kind != types.OutcomeCompleted {
		t.Fatalf("Kind = %v, want completed", out.Kind)
	}
	if out.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", out.ExitCode)
	}
	if out.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
	if got := string(out.Stderr); got != "bad\n" {
		t.Errorf("Stderr = %q, want %q", got, "bad\n")
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	r, dir := newTestRunner(t)
	sub := filepath.Join(dir, "subdir")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	out := r.Run(context.Background(), "pwd", sub)
	if !strings.Contains(string(out.Stdout), "subdir") {
		t.Errorf("Stdout = %q, want to contain 'subdir'", out.Stdout)
	}
}

func TestRun_SetsPWD(t *testing.T) {
	r, dir := newTestRunner(t)
	sub := filepath.Join(dir, "inner")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	out := r.Run(context.Background(), `printf %s "$PWD"`, sub)
	if got := string(out.Stdout); filepath.Base(got) != "inner" {
		t.Errorf("PWD = %q, want to end in %q", got, "inner")
	}
}

func TestRun_ForcesTerm(t *testing.T) {
	r, dir := newTestRunner(t)
	t.Setenv("TERM", "dumb")

	out := r.Run(context.Background(), `printf %s "$TERM"`, dir)
	if got := string(out.Stdout); got != DefaultTerm {
		t.Errorf("TERM = %q, want %q", got, DefaultTerm)
	}

	r.Term = "screen-256color"
	out = r.Run(context.Background(), `printf %s "$TERM"`, dir)
	if got := string(out.Stdout); got != "screen-256color" {
		t.Errorf("TERM = %q, want %q", got, "screen-256color")
	}
}

func TestRun_ExtraEnv(t *testing.T) {
	r, dir := newTestRunner(t)
	r.Env = []string{"RR_TEST_VALUE=hello"}

	out := r.Run(context.Background(), `printf %s "$RR_TEST_VALUE"`, dir)
	if got := string(out.Stdout); got != "hello" {
		t.Errorf("Stdout = %q, want %q", got, "hello")
	}
}

func TestRun_ShellNotFound(t *testing.T) {
	r, dir := newTestRunner(t)
	r.Shell = "nonexistent-shell-xyz-123"

	out := r.Run(context.Background(), "echo ok", dir)
	if out.Kind != types.OutcomeLaunchFailed {
		t.Fatalf("Kind = %v, want launch-failed", out.Kind)
	}
	if !strings.Contains(out.Err, "nonexistent-shell-xyz-123") {
		t.Errorf("Err = %q, want to mention the shell", out.Err)
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	r, dir := newTestRunner(t)

	out := r.Run(context.Background(), "echo ok", filepath.Join(dir, "gone"))
	if out.Kind != types.OutcomeLaunchFailed {
		t.Fatalf("Kind = %v, want launch-failed", out.Kind)
	}
}

func TestRun_FullOutputCaptured(t *testing.T) {
	r, dir := newTestRunner(t)

	// 256 KiB, well beyond any pipe buffer
	out := r.Run(context.Background(), "dd if=/dev/zero bs=1024 count=256 2>/dev/null", dir)
	if len(out.Stdout) != 256*1024 {
		t.Errorf("len(Stdout) = %d, want %d", len(out.Stdout), 256*1024)
	}
}

func TestRun_Timeout(t *testing.T) {
	r, dir := newTestRunner(t)
	r.Timeout = 100 * time.Millisecond

	start := time.Now()
	out := r.Run(context.Background(), "exec sleep 10", dir)
	if time.Since(start) > 5*time.Second {
		t.Fatalf("Run did not honor timeout")
	}
	if out.Kind != types.OutcomeCompleted {
		t.Fatalf("Kind = %v, want completed", out.Kind)
	}
	if !out.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if out.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
}

func TestRun_TimeoutKillsForkedChildren(t *testing.T) {
	r, dir := newTestRunner(t)
	r.Timeout = 100 * time.Millisecond

	start := time.Now()
	out := r.Run(context.Background(), "sleep 3; echo done", dir)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Run took %v, want the timeout to stop the forked sleep", elapsed)
	}
	if !out.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if strings.Contains(string(out.Stdout), "done") {
		t.Errorf("Stdout = %q, want the command to be stopped before echo", out.Stdout)
	}
}

func TestRun_CancelKillsForkedChildren(t *testing.T) {
	r, dir := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	out := r.Run(ctx, "sleep 3 | cat; echo done", dir)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Run took %v, want cancellation to stop the pipeline", elapsed)
	}
	if out.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
	if out.TimedOut {
		t.Error("TimedOut = true, want false for a cancelled run")
	}
	if out.Signal != "SIGKILL" {
		t.Errorf("Signal = %q, want %q", out.Signal, "SIGKILL")
	}
}

func TestRun_BackgroundChildOutputCaptured(t *testing.T) {
	r, dir := newTestRunner(t)

	out := r.Run(context.Background(), "(sleep 0.2; echo late) & echo early", dir)
	if !out.Succeeded() {
		t.Fatalf("Succeeded() = false, want true (kind %v, err %q)", out.Kind, out.Err)
	}
	if got := string(out.Stdout); got != "early\nlate\n" {
		t.Errorf("Stdout = %q, want %q", got, "early\nlate\n")
	}
}

func TestRun_Signaled(t *testing.T) {
	r, dir := newTestRunner(t)

	out := r.Run(context.Background(), "kill -TERM $$", dir)
	if out.Kind != types.OutcomeCompleted {
		t.Fatalf("Kind = %v, want completed", out.Kind)
	}
	if out.Signal != "SIGTERM" {
		t.Errorf("Signal = %q, want %q (exit code %d)", out.Signal, "SIGTERM", out.ExitCode)
	}
	if out.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
}

func TestChildEnv(t *testing.T) {
	env := childEnv([]string{"HOME=/h", "TERM=dumb", "PWD=/elsewhere", "PATH=/bin"}, "/srv/app", "xterm-256color", []string{"A=1"})
	got := strings.Join(env, " ")
	want := "HOME=/h PATH=/bin PWD=/srv/app TERM=xterm-256color A=1"
	if got != want {
		t.Errorf("childEnv() = %q, want %q", got, want)
	}
}
