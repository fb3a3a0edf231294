// Package report turns one directory's execution outcome into the
// ordered blocks of its report and prints them.
package report

import (
	"fmt"

	"github.com/srgsanky/recursive-runner/internal/types"
)

// Render decides which blocks to print for a directory. It is pure: the
// result depends only on its arguments.
//
// For a completed run the order is fixed: header and separator, status
// line, stdout, stderr, trailing blank. Quiet mode drops the header
// only when nothing else would be printed. Ignore-errors drops the
// status line and stderr entirely.
func Render(dir types.DirectoryEntry, outcome types.Outcome, cfg types.RunConfig) []types.Block {
	if outcome.Kind == types.OutcomeLaunchFailed {
		return []types.Block{
			header(dir),
			separator(types.ToneNeutral),
			{Kind: types.BlockLaunchError, Tone: types.ToneFailure, Text: "Failed to execute command: " + outcome.Err},
		}
	}

	failed := !outcome.Succeeded() && !cfg.IgnoreErrors
	hasStdout := len(outcome.Stdout) > 0
	hasStderr := len(outcome.Stderr) > 0 && !cfg.IgnoreErrors

	var blocks []types.Block

	if !cfg.Quiet || failed || hasStdout || hasStderr {
		blocks = append(blocks, header(dir), separator(types.ToneNeutral))
	}

	if failed {
		blocks = append(blocks,
			types.Block{Kind: types.BlockStatus, Tone: types.ToneFailure, Text: statusLine(outcome)},
			separator(types.ToneFailure),
		)
	}

	if hasStdout {
		blocks = append(blocks,
			types.Block{Kind: types.BlockStdout, Tone: types.ToneNeutral, Text: outcome.StdoutText()},
			separator(types.ToneNeutral),
		)
	}

	if hasStderr {
		blocks = append(blocks,
			types.Block{Kind: types.BlockStderr, Tone: types.ToneFailure, Text: outcome.StderrText()},
			separator(types.ToneFailure),
		)
	}

	if len(blocks) > 0 {
		blocks = append(blocks, types.Block{Kind: types.BlockBlank})
	}
	return blocks
}

func header(dir types.DirectoryEntry) types.Block {
	return types.Block{Kind: types.BlockHeader, Tone: types.ToneAccent, Text: dir.Path}
}

func separator(tone types.Tone) types.Block {
	return types.Block{Kind: types.BlockSeparator, Tone: tone}
}

func statusLine(outcome types.Outcome) string {
	switch {
	case outcome.TimedOut:
		return "Status: timed out"
	case outcome.Signal != "":
		return "Status: terminated by " + outcome.Signal
	default:
		return fmt.Sprintf("Status: %d", outcome.ExitCode)
	}
}
