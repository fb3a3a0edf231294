// Package driver runs the command across every listed subdirectory and
// prints each directory's report in listing order.
package driver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/srgsanky/recursive-runner/internal/report"
	"github.com/srgsanky/recursive-runner/internal/types"
)

type (
	// Lister enumerates the directories to visit.
	Lister interface {
		ListSubdirectories() (types.DirectoryListing, error)
	}

	// Executor runs the command in one directory.
	Executor interface {
		Run(ctx context.Context, command, dir string) types.Outcome
	}

	// Reporter writes one directory's rendered blocks.
	Reporter interface {
		Print(blocks []types.Block) error
	}
)

// Summary counts what happened during a run.
type Summary struct {
	Directories  int `json:"directories"`
	Failed       int `json:"failed"`       // completed with a non-success status
	LaunchFailed int `json:"launchFailed"` // shell could not be started
	Skipped      int `json:"skipped"`      // listing entries that could not be read
}

// Driver wires the enumerator, executor and printer together.
type Driver struct {
	Lister   Lister
	Executor Executor
	Reporter Reporter
	Config   types.RunConfig

	// Jobs is the number of directories executed at once. Values below 2
	// run strictly one directory at a time.
	Jobs int

	// Observe, when set, sees every outcome in listing order just before
	// its report is printed.
	Observe func(entry types.DirectoryEntry, outcome types.Outcome)
}

// Run lists the directories once and processes each of them. A listing
// failure is returned unchanged and nothing is executed. Per-directory
// failures are part of the report, not errors; only a failure to write
// the report ends the run early.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	listing, err := d.Lister.ListSubdirectories()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Skipped: listing.Skipped}
	if d.Jobs > 1 {
		err = d.runConcurrent(ctx, listing.Entries, &summary)
	} else {
		err = d.runSequential(ctx, listing.Entries, &summary)
	}
	return summary, err
}

func (d *Driver) runSequential(ctx context.Context, entries []types.DirectoryEntry, summary *Summary) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome := d.Executor.Run(ctx, d.Config.Command, entry.Dir)
		if err := d.emit(entry, outcome, summary); err != nil {
			return err
		}
	}
	return nil
}

// runConcurrent executes up to Jobs directories at a time. Reports are
// still printed in listing order: directory i is printed as soon as it
// and every directory before it have finished.
func (d *Driver) runConcurrent(ctx context.Context, entries []types.DirectoryEntry, summary *Summary) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan types.Outcome, len(entries))
	for i := range slots {
		slots[i] = make(chan types.Outcome, 1)
	}

	var g errgroup.Group
	g.SetLimit(d.Jobs)

	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		for i, entry := range entries {
			g.Go(func() error {
				if ctx.Err() != nil {
					slots[i] <- types.Outcome{}
					return nil
				}
				slots[i] <- d.Executor.Run(ctx, d.Config.Command, entry.Dir)
				return nil
			})
		}
	}()

	var emitErr error
	for i, entry := range entries {
		outcome := <-slots[i]
		if emitErr != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			emitErr = err
			continue
		}
		if err := d.emit(entry, outcome, summary); err != nil {
			emitErr = err
			cancel()
		}
	}

	<-scheduled
	_ = g.Wait()
	return emitErr
}

func (d *Driver) emit(entry types.DirectoryEntry, outcome types.Outcome, summary *Summary) error {
	summary.Directories++
	switch {
	case outcome.Kind == types.OutcomeLaunchFailed:
		summary.LaunchFailed++
	case !outcome.Succeeded():
		summary.Failed++
	}
	if d.Observe != nil {
		d.Observe(entry, outcome)
	}
	return d.Reporter.Print(report.Render(entry, outcome, d.Config))
}
