package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srgsanky/recursive-runner/internal/driver"
)

type (
	// RunInput contains parameters for running a command across subdirectories.
	RunInput struct {
		Command      string `json:"command" jsonschema:"Shell command to run once in every subdirectory"`
		Directory    string `json:"directory,omitempty" jsonschema:"Directory whose subdirectories are visited, relative to the workspace (default: workspace root)"`
		IgnoreErrors *bool  `json:"ignoreErrors,omitempty" jsonschema:"Hide non-zero exit statuses and stderr (default: the server's config, else false)"`
		Quiet        *bool  `json:"quiet,omitempty" jsonschema:"Omit directories with nothing to report (default: the server's config, else false)"`
	}

	// ReportBlock is one section of a directory report.
	ReportBlock struct {
		Kind string `json:"kind"`
		Tone string `json:"tone"`
		Text string `json:"text,omitempty"`
	}

	// DirectoryResult is the outcome and report for one subdirectory.
	DirectoryResult struct {
		Path      string        `json:"path"`
		Outcome   string        `json:"outcome"`
		ExitCode  int           `json:"exitCode"`
		Succeeded bool          `json:"succeeded"`
		Signal    string        `json:"signal,omitempty"`
		TimedOut  bool          `json:"timedOut,omitempty"`
		Error     string        `json:"error,omitempty"`
		Blocks    []ReportBlock `json:"blocks"`
	}

	// RunOutput contains per-directory results and the plain-text report.
	RunOutput struct {
		Directories []DirectoryResult `json:"directories"`
		Report      string            `json:"report"`
		Summary     driver.Summary    `json:"summary"`
	}
)

func registerTools(server *mcp.Server, s *toolServer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run",
		Description: "Run a shell command once in every immediate, non-hidden subdirectory and return each directory's exit status, stdout and stderr as a labeled report. Directories are processed in name order.",
	}, s.handleRun)
}
