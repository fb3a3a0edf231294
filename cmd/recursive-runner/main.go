// Package main implements recursive-runner, which runs a shell command
// in every immediate subdirectory of the working directory.
package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

type options struct {
	ignoreErrors bool
	quiet        bool
	strict       bool
	shell        string
	term         string
	timeout      time.Duration
	jobs         int
	width        int
	color        string
	configPath   string
	directory    string
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "recursive-runner <command>",
		Short: "Run a shell command in every subdirectory",
		Long: `recursive-runner runs the given shell command once in each immediate,
non-hidden subdirectory of the current directory and prints a labeled
report for each one: exit status, stdout and stderr, separated by rules.

Defaults can be stored in a .recursive-runner.yml file in the current
directory; flags given on the command line take precedence.`,
		Example: `recursive-runner "git status -s"
recursive-runner -q "git log -1 --oneline @{u}.."
recursive-runner -i -j 4 "make test"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.ignoreErrors, "ignore-errors", "i", false, "ignore errors: hide non-zero exit statuses and stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the banner for directories with nothing to report")
	flags.BoolVar(&opts.strict, "strict", false, "exit non-zero when the directory cannot be read or any directory fails")
	flags.StringVar(&opts.shell, "shell", "", "shell used to interpret the command (default \"sh\")")
	flags.StringVar(&opts.term, "term", "", "TERM value given to each command (default \"xterm-256color\")")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-directory time limit, e.g. 30s (default: none)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "number of directories to run at once; reports stay in order")
	flags.IntVar(&opts.width, "width", 0, "separator width (default: terminal width, or 50)")
	flags.StringVar(&opts.color, "color", "auto", "when to color output: auto, always or never")
	flags.StringVarP(&opts.directory, "directory", "C", ".", "visit the subdirectories of this directory instead of the current one")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./.recursive-runner.yml)")

	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}
