package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/pipeline"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	runs        int
	iterations  int
	seed        uint64
	concurrency int
	sitePath    string
	formats     string
	output      string
	title       string
	noOverlays  bool
	noProgress  bool
}

func (c *CLI) optimizeCommand() *cobra.Command {
	opts := optimizeOpts{
		runs:       pipeline.DefaultRuns,
		iterations: pipeline.DefaultIterations,
	}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Anneal building layouts for a site",
		Long: `Optimize runs simulated annealing from a random start and writes the best
layout of each run in the requested formats. Runs are independent; run i uses
seed+i, so a fixed --seed reproduces a batch exactly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.runs, "runs", "n", opts.runs, fmt.Sprintf("independent layouts to produce (max %d)", pipeline.MaxRuns))
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "i", opts.iterations, "annealing steps per run")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "base random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "runs executed at once (default: all)")
	cmd.Flags().StringVar(&opts.sitePath, "site", "", "site config file (.toml, .yaml or .json)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, text, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: layout)")
	cmd.Flags().StringVar(&opts.title, "title", "", "figure title prefix (default: Result)")
	cmd.Flags().BoolVar(&opts.noOverlays, "no-overlays", false, "omit violation overlays from SVG output")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress display")

	registerSiteCompletion(cmd)
	registerFormatCompletion(cmd)

	return cmd
}

func (o optimizeOpts) pipelineOptions() (pipeline.Options, error) {
	cfg, err := loadSite(o.sitePath)
	if err != nil {
		return pipeline.Options{}, err
	}
	popts := pipeline.Options{
		Runs:        o.runs,
		Iterations:  &o.iterations,
		Seed:        o.seed,
		Concurrency: o.concurrency,
		Site:        &cfg,
		Formats:     parseFormats(o.formats),
		Title:       o.title,
	}
	if o.noOverlays {
		off := false
		popts.Overlays = &off
	}
	return popts, nil
}

func (c *CLI) runOptimize(ctx context.Context, o optimizeOpts) error {
	opts, err := o.pipelineOptions()
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	sw := newStopwatch(c.Logger)
	var res *pipeline.Result
	if c.interactive && !o.noProgress {
		res, err = c.executeWithProgress(ctx, opts)
	} else {
		res, err = pipeline.NewRunner(c.Logger).Execute(ctx, opts)
	}
	if err != nil {
		return err
	}
	sw.done(fmt.Sprintf("Optimized %d layout(s)", len(res.Runs)))

	return writeResult(res, opts, basePath(o.output, defaultOutputBase))
}

// executeWithProgress runs the request under a bubbletea progress view.
// Log output is discarded while the view owns the terminal.
func (c *CLI) executeWithProgress(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProgressModel(opts.Runs, cancel)
	opts.Progress = model.Report
	opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(opts.Logger)

	p := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "optimization interrupted")
		}
		return nil, err
	}
	m := final.(ProgressModel)
	return m.Result, m.Err
}

// writeResult writes every artifact and prints a per-run summary.
func writeResult(res *pipeline.Result, opts pipeline.Options, base string) error {
	best := res.Best()
	var bestJSON string
	printInfo("Seed %s", StyleNumber.Render(fmt.Sprintf("%d", res.Seed)))
	for _, run := range res.Runs {
		printSuccess("Run %d  %s", run.Index+1, statusLabel(run.Report))
		printStats(run.Layout.Len(), run.Layout.TotalArea(), run.Energy, len(res.Runs) > 1 && run.Index == best.Index)
		for _, format := range opts.Formats {
			path := outputPath(base, format, run.Index, len(res.Runs))
			if err := os.WriteFile(path, run.Artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printFile(path)
			if format == pipeline.FormatJSON && run.Index == best.Index {
				bestJSON = path
			}
		}
	}
	if len(res.Sheet) > 0 {
		path := base + "_sheet.svg"
		if err := os.WriteFile(path, res.Sheet, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	if !best.Report.Valid {
		printWarning("Best layout still has %d violation(s): %s", best.Report.Total, best.Report.Summary)
	}
	if bestJSON != "" {
		printNextStep("Inspect the best layout", appName+" audit "+bestJSON)
	}
	return nil
}
