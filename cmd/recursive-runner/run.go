package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

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

func runCommand(cmd *cobra.Command, command string, opts *options) error {
	if strings.TrimSpace(command) == "" {
		return errors.New("command must not be empty")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	mode, err := terminal.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	tctx := detect(out).WithColorMode(mode).WithWidth(cfg.Width)
	printer := report.NewPrinter(out, errOut, tctx)

	lister := filesystem.New(opts.directory, pathfilter.New(cfg.PathFilter()))
	lister.OnSkip = func(err *filesystem.EntryReadError) {
		_ = printer.Diagnostic(err.Error())
	}

	d := &driver.Driver{
		Lister: lister,
		Executor: &runner.Runner{
			Shell:   cfg.Shell(),
			Term:    cfg.Term(),
			Timeout: cfg.Timeout(),
			Env:     cfg.Env,
		},
		Reporter: printer,
		Config: types.RunConfig{
			Command:      command,
			IgnoreErrors: cfg.IgnoreErrors,
			Quiet:        cfg.Quiet,
		},
		Jobs: cfg.Jobs(),
	}

	summary, err := d.Run(ctx)
	var readErr *filesystem.DirectoryReadError
	if errors.As(err, &readErr) {
		if cfg.Strict {
			return fmt.Errorf("failed to read current directory: %w", err)
		}
		_ = printer.Diagnostic("Failed to read current directory: " + err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.Strict {
		failed := summary.LaunchFailed
		if !cfg.IgnoreErrors {
			failed += summary.Failed
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d directories failed", failed, summary.Directories)
		}
	}
	return nil
}

// loadConfig reads the config file and overlays every flag the user
// set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	cfg, err := config.Load(wd, opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ignore-errors") {
		cfg.IgnoreErrors = opts.ignoreErrors
	}
	if flags.Changed("quiet") {
		cfg.Quiet = opts.quiet
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if flags.Changed("shell") {
		cfg.RawShell = opts.shell
	}
	if flags.Changed("term") {
		cfg.RawTerm = opts.term
	}
	if flags.Changed("timeout") {
		cfg.RawTimeout = opts.timeout.String()
	}
	if flags.Changed("jobs") {
		cfg.RawJobs = opts.jobs
	}
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("color") || cfg.Color == "" {
		cfg.Color = opts.color
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detect only probes real files; anything else is treated as a pipe.
func detect(w io.Writer) terminal.Context {
	if f, ok := w.(*os.File); ok {
		return terminal.Detect(f)
	}
	return terminal.Detect(nil)
}
