package types

import "strings"

// OutcomeKind distinguishes a child that ran from one that never started.
type OutcomeKind int

const (
	// OutcomeCompleted means the shell ran to completion (successfully or not).
	OutcomeCompleted OutcomeKind = iota
	// OutcomeLaunchFailed means the shell could not be spawned.
	OutcomeLaunchFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeLaunchFailed:
		return "launch-failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of running the command in one directory.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	ExitCode int         `json:"exitCode"`
	Stdout   []byte      `json:"-"`
	Stderr   []byte      `json:"-"`
	Signal   string      `json:"signal,omitempty"`   // set when killed without an exit code
	TimedOut bool        `json:"timedOut,omitempty"` // set when the run deadline expired
	Err      string      `json:"error,omitempty"`    // launch failure text
}

// Completed builds an outcome for a child that exited with code.
func Completed(code int, stdout, stderr []byte) Outcome {
	return Outcome{
		Kind:     OutcomeCompleted,
		ExitCode: code,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// LaunchFailed builds an outcome for a child that could not be started.
func LaunchFailed(err error) Outcome {
	return Outcome{Kind: OutcomeLaunchFailed, Err: err.Error()}
}

// Succeeded reports whether the child ran and exited with status zero.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeCompleted && o.ExitCode == 0 && o.Signal == "" && !o.TimedOut
}

// StdoutText decodes captured stdout, replacing invalid UTF-8.
func (o Outcome) StdoutText() string {
	return decode(o.Stdout)
}

// StderrText decodes captured stderr, replacing invalid UTF-8.
func (o Outcome) StderrText() string {
	return decode(o.Stderr)
}

func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
