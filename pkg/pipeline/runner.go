package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/siteplan/pkg/anneal"
	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/observability"
)

// Runner executes optimization requests.
//
// The Runner holds only its logger; it doesn't store results. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete optimize → audit → render pipeline.
//
// Runs execute concurrently, at most opts.Concurrency at a time. Cancelling
// ctx stops every run at its next step and Execute returns a CANCELED error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{
		Site: *opts.Site,
		Seed: opts.Seed,
		Runs: make([]RunResult, opts.Runs),
	}

	r.Logger.Info("optimizing", "runs", opts.Runs, "iterations", opts.Budget(), "seed", opts.Seed)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range opts.Runs {
		g.Go(func() error {
			run, err := r.optimize(gctx, opts, i)
			if err != nil {
				return err
			}
			result.Runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range result.Runs {
		run := &result.Runs[i]
		artifacts, err := r.Render(ctx, run.Document(result.Site), runRenderOptions(opts, i))
		if err != nil {
			return nil, err
		}
		run.Artifacts = artifacts
	}
	if opts.Runs > 1 && slices.Contains(opts.Formats, FormatSVG) {
		result.Sheet = RenderSheet(result, opts)
	}

	result.Duration = time.Since(start)
	best := result.Best()
	r.Logger.Info("optimization complete",
		"best_run", best.Index+1,
		"energy", best.Energy,
		"violations", best.Report.Total,
		"duration", result.Duration)
	return result, nil
}

// optimize performs run i, checking ctx between steps.
func (r *Runner) optimize(ctx context.Context, opts Options, i int) (RunResult, error) {
	aopts := opts.annealOptions(i)
	if opts.Progress != nil {
		aopts.Progress = func(f float64) { opts.Progress(i, f) }
	}
	s, err := anneal.New(*opts.Site, aopts)
	if err != nil {
		return RunResult{}, err
	}

	id := uuid.NewString()
	hooks := observability.Runs()
	hooks.OnRunStart(ctx, id, aopts.Seed, aopts.Iterations)
	start := time.Now()

	done := ctx.Done()
	canceled := false
loop:
	for s.Step() {
		select {
		case <-done:
			canceled = true
			break loop
		default:
		}
	}

	res := s.Finish()
	vs := audit.Audit(res.Layout, *opts.Site)
	run := RunResult{
		Index:      i,
		ID:         id,
		Seed:       res.Seed,
		Layout:     res.Layout,
		Energy:     res.Energy,
		Violations: vs,
		Report:     audit.Summarize(vs),
		Stats:      res.Stats,
		Duration:   time.Since(start),
	}

	outcome := observability.RunOutcome{
		Energy:     run.Energy,
		Buildings:  run.Layout.Len(),
		Violations: run.Report.Total,
		Accepted:   run.Stats.Accepted,
		Iterations: run.Stats.Iterations,
		Duration:   run.Duration,
	}
	if canceled {
		err := errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "run %d canceled after %d of %d iterations",
			i+1, res.Stats.Iterations, aopts.Iterations)
		hooks.OnRunComplete(ctx, id, outcome, err)
		return RunResult{}, err
	}
	hooks.OnRunComplete(ctx, id, outcome, nil)

	r.Logger.Debug("run complete",
		"run", i+1,
		"seed", run.Seed,
		"energy", run.Energy,
		"buildings", run.Layout.Len(),
		"accepted", run.Stats.Accepted,
		"improvements", run.Stats.Improvements,
		"duration", run.Duration)
	return run, nil
}

// runRenderOptions titles run i the same way its panel is titled in the sheet.
func runRenderOptions(opts Options, i int) Options {
	prefix := opts.Title
	if prefix == "" {
		prefix = "Result"
	}
	opts.Title = fmt.Sprintf("%s %d", prefix, i+1)
	return opts
}
