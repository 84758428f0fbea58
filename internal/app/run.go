package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/statscheck/internal/casefile"
	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
	"github.com/specialistvlad/statscheck/internal/processor"
	"github.com/specialistvlad/statscheck/internal/tester"
)

// Result is the outcome of one case.
type Result struct {
	Name     string
	Duration time.Duration
	// Assets is the number of emitted assets, or -1 when no stats were checked.
	Assets int
	Err    error
}

// Run loads every case below the configured path, runs them concurrently and
// prints one line per case followed by a summary.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	cases, err := casefile.NewLoader(a.fs, defaultCompiler).Load(ctx, a.config.CasesPath)
	if err != nil {
		return fmt.Errorf("failed to load cases: %w", err)
	}
	if len(cases) == 0 {
		a.logger.Warn("No cases found, execution not required.", "path", a.config.CasesPath)
		return nil
	}

	a.logger.Info("Starting case execution.", "cases", len(cases), "workers", a.config.Workers)
	results := make([]Result, len(cases))

	var g errgroup.Group
	g.SetLimit(a.config.Workers)
	for i, c := range cases {
		g.Go(func() error {
			results[i] = a.runCase(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.outW, "FAIL %s (%s)\n     %v\n", r.Name, r.Duration.Round(time.Millisecond), r.Err)
			continue
		}
		fmt.Fprintf(a.outW, "PASS %s (%d assets, %s)\n", r.Name, r.Assets, r.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(a.outW, "\n%d passed, %d failed\n", len(results)-failed, failed)

	a.logger.Debug("App.Run method finished.")
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

func (a *App) runCase(ctx context.Context, c *casefile.Case) Result {
	start := time.Now()
	tst := tester.New(tester.Config{
		Name:        c.Name,
		Source:      c.Options.Context,
		Dist:        filepath.Join(c.Options.Context, "dist"),
		PrintLogger: a.config.PrintLogger,
		Registry:    a.registry,
		Steps: []processor.Processor{
			c.Processor(casefile.ProcessorOptions{
				SnapshotFS:      a.fs,
				UpdateSnapshots: a.config.UpdateSnapshots,
			}),
		},
	})
	err := tst.Run(ctx, &caseEnv{name: c.Name, ctx: ctx})
	res := Result{Name: c.Name, Duration: time.Since(start), Assets: -1, Err: err}

	// Stage failures carry the stage that produced them.
	if recorded := tst.Context().Errors(c.Name); len(recorded) > 0 {
		res.Err = recorded[0]
	}
	if v, ok := tst.Context().Value(c.Name, processor.StatsKey); ok {
		res.Assets = len(v.(compiler.Stats).ToJSON().Assets)
	}
	return res
}

// caseEnv reports through the application logger.
type caseEnv struct {
	name string
	ctx  context.Context
}

func (e *caseEnv) Name() string { return e.name }

func (e *caseEnv) Logf(format string, args ...any) {
	ctxlog.FromContext(e.ctx).Info(fmt.Sprintf(format, args...), "case", e.name)
}
