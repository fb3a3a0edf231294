package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/srgsanky/recursive-runner/internal/config"
	"github.com/srgsanky/recursive-runner/internal/driver"
	"github.com/srgsanky/recursive-runner/internal/filesystem"
	"github.com/srgsanky/recursive-runner/internal/pathfilter"
	"github.com/srgsanky/recursive-runner/internal/report"
	"github.com/srgsanky/recursive-runner/internal/runner"
	"github.com/srgsanky/recursive-runner/internal/terminal"
	"github.com/srgsanky/recursive-runner/internal/types"
)

// toolServer carries what every tool call needs: the workspace the
// server was started in and the loaded configuration.
type toolServer struct {
	workspace string
	cfg       *config.Config
}

func newMCPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the runner as a Model Context Protocol tool over stdio",
		Long: `mcp starts a Model Context Protocol server on stdin/stdout exposing a
single "run" tool. Tool calls may only visit directories inside the
directory the server was started in.

To run a shell command literally named "mcp", use: recursive-runner -- mcp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			workspace, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			cfg, err := config.Load(workspace, opts.configPath)
			if err != nil {
				return err
			}

			server := newMCPServer(workspace, cfg)
			if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
				return fmt.Errorf("error running server: %w", err)
			}
			return nil
		},
	}
}

func newMCPServer(workspace string, cfg *config.Config) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "recursive-runner",
		Version: version,
	}, nil)
	registerTools(server, &toolServer{workspace: workspace, cfg: cfg})
	return server
}

// reporterFunc adapts a function to driver.Reporter.
type reporterFunc func(blocks []types.Block) error

func (f reporterFunc) Print(blocks []types.Block) error {
	return f(blocks)
}

func (s *toolServer) handleRun(ctx context.Context, req *mcp.CallToolRequest, input RunInput) (*mcp.CallToolResult, RunOutput, error) {
	command := strings.TrimSpace(input.Command)
	if command == "" {
		return &mcp.CallToolResult{IsError: true}, RunOutput{}, fmt.Errorf("command must not be empty")
	}

	root, err := filesystem.ResolvePath(s.workspace, input.Directory)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RunOutput{}, err
	}

	var text bytes.Buffer
	printer := report.NewPrinter(&text, &text, terminal.Context{Width: s.cfg.Width})

	output := RunOutput{Directories: []DirectoryResult{}}
	d := &driver.Driver{
		Lister: filesystem.New(root, pathfilter.New(s.cfg.PathFilter())),
		Executor: &runner.Runner{
			Shell:   s.cfg.Shell(),
			Term:    s.cfg.Term(),
			Timeout: s.cfg.Timeout(),
			Env:     s.cfg.Env,
		},
		Config: types.RunConfig{
			Command:      command,
			IgnoreErrors: orDefault(input.IgnoreErrors, s.cfg.IgnoreErrors),
			Quiet:        orDefault(input.Quiet, s.cfg.Quiet),
		},
		Jobs: s.cfg.Jobs(),
		Observe: func(entry types.DirectoryEntry, outcome types.Outcome) {
			output.Directories = append(output.Directories, newDirectoryResult(entry, outcome))
		},
		Reporter: reporterFunc(func(blocks []types.Block) error {
			current := &output.Directories[len(output.Directories)-1]
			current.Blocks = toReportBlocks(blocks)
			return printer.Print(blocks)
		}),
	}

	summary, err := d.Run(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RunOutput{}, err
	}

	output.Report = text.String()
	output.Summary = summary
	return nil, output, nil
}

// orDefault returns *v when the caller set it, def otherwise.
func orDefault(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func newDirectoryResult(entry types.DirectoryEntry, outcome types.Outcome) DirectoryResult {
	return DirectoryResult{
		Path:      entry.Path,
		Outcome:   outcome.Kind.String(),
		ExitCode:  outcome.ExitCode,
		Succeeded: outcome.Succeeded(),
		Signal:    outcome.Signal,
		TimedOut:  outcome.TimedOut,
		Error:     outcome.Err,
		Blocks:    []ReportBlock{},
	}
}

func toReportBlocks(blocks []types.Block) []ReportBlock {
	out := make([]ReportBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, ReportBlock{
			Kind: b.Kind.String(),
			Tone: b.Tone.String(),
			Text: b.Text,
		})
	}
	return out
}
