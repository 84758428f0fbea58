package casefile

import (
	"context"

	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
	"github.com/specialistvlad/statscheck/internal/processor"
	"github.com/specialistvlad/statscheck/internal/testctx"
)

// ProcessorOptions controls how case processors treat snapshots.
type ProcessorOptions struct {
	// SnapshotFS is where snapshots are read and written.
	SnapshotFS      afero.Fs
	UpdateSnapshots bool
}

// Processor returns the stats API processor that runs the case.
func (c *Case) Processor(opts ProcessorOptions) *processor.StatsAPIProcessor {
	snapshot := c.SnapshotPath
	return processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         c.Name,
		CompilerType: c.CompilerType,
		SnapshotName: snapshot,
		Options: func(*testctx.Context) (*compiler.Options, error) {
			return c.Options.Clone(), nil
		},
		Check: func(ctx context.Context, stats compiler.Stats, _ compiler.Compiler) error {
			report := stats.ToJSON()
			if err := c.Expect.Verify(c.Name, report); err != nil {
				return err
			}
			if snapshot == "" || opts.SnapshotFS == nil {
				return nil
			}
			ctxlog.FromContext(ctx).Debug("Matching snapshot.", "case", c.Name, "snapshot", snapshot)
			return MatchSnapshot(opts.SnapshotFS, snapshot, report, opts.UpdateSnapshots)
		},
	})
}
