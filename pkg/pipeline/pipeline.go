// Package pipeline runs optimization requests end to end.
//
// This package implements the optimize → audit → render pipeline that is
// shared by the CLI and the HTTP API, so both entry points apply the same
// defaults and produce the same artifacts.
//
// # Architecture
//
// A request runs in three stages:
//
//  1. Optimize: run one or more independent annealing searches, concurrently
//  2. Audit: check each best layout against the site rules
//  3. Render: produce each requested output format per layout
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	budget := 3000
//	opts := pipeline.Options{
//	    Runs:       2,
//	    Iterations: &budget,
//	    Formats:    []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Runs[0].Artifacts["svg"]
//
// Runs draw from independent random sources seeded Seed, Seed+1, ...;
// a request with the same seed and options always yields the same layouts.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/siteplan/pkg/anneal"
	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultRuns is the number of independent layouts per request.
	DefaultRuns = 1

	// MaxRuns caps the layouts per request.
	MaxRuns = 16

	// DefaultIterations is the annealing budget per run.
	DefaultIterations = anneal.DefaultIterations

	// MaxIterations caps the budget per run.
	MaxIterations = 1_000_000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Request Configuration
// =============================================================================

// ProgressFunc receives the completed fraction of one run. It is called from
// the run's goroutine and must not block.
type ProgressFunc func(run int, fraction float64)

// Options contains all configuration for an optimization request.
// This struct supports JSON serialization for API requests.
type Options struct {
	Runs        int          `json:"runs,omitempty"`
	Iterations  *int         `json:"iterations,omitempty"` // nil selects DefaultIterations; 0 is rejected
	Seed        uint64       `json:"seed,omitempty"` // 0 picks a seed from the clock
	Concurrency int          `json:"concurrency,omitempty"`
	Site        *site.Config `json:"site,omitempty"`

	// Annealing overrides; zero keeps the scheduler defaults.
	InitialTemperature float64 `json:"initial_temperature,omitempty"`
	CoolingRate        float64 `json:"cooling_rate,omitempty"`
	InitialBuildings   int     `json:"initial_buildings,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"`
	Overlays *bool    `json:"overlays,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger  `json:"-"`
	Progress ProgressFunc `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a request.
type Result struct {
	Site     site.Config
	Seed     uint64
	Runs     []RunResult
	Sheet    []byte // SVG of all runs side by side, when svg was requested
	Duration time.Duration
}

// RunResult is the outcome of one annealing run.
type RunResult struct {
	Index      int
	ID         string
	Seed       uint64
	Layout     layout.Layout
	Energy     float64
	Violations []audit.Violation
	Report     audit.Report
	Stats      anneal.Stats
	Duration   time.Duration
	Artifacts  map[string][]byte
}

// Best returns the run with the lowest energy. Ties keep the earlier run.
func (r *Result) Best() RunResult {
	if len(r.Runs) == 0 {
		return RunResult{}
	}
	return slices.MinFunc(r.Runs, func(a, b RunResult) int {
		switch {
		case a.Energy < b.Energy:
			return -1
		case a.Energy > b.Energy:
			return 1
		}
		return a.Index - b.Index
	})
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, text, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the request and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Runs == 0 {
		o.Runs = DefaultRuns
	}
	if o.Runs < 1 || o.Runs > MaxRuns {
		return errors.New(errors.ErrCodeInvalidInput, "runs must be between 1 and %d, got %d", MaxRuns, o.Runs)
	}
	if o.Iterations == nil {
		n := DefaultIterations
		o.Iterations = &n
	}
	if n := *o.Iterations; n < 1 {
		return errors.New(errors.ErrCodeInvalidBudget, "iterations must be >= 1, got %d", n)
	} else if n > MaxIterations {
		return errors.New(errors.ErrCodeInvalidBudget, "iterations must be <= %d, got %d", MaxIterations, n)
	}
	if o.Concurrency <= 0 || o.Concurrency > o.Runs {
		o.Concurrency = o.Runs
	}

	if o.Site == nil {
		cfg := site.Default()
		o.Site = &cfg
	}
	if err := o.Site.Validate(); err != nil {
		return err
	}

	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	o.validated = true
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	return ValidateFormats(o.Formats)
}

// ShowOverlays reports whether SVG output includes violation overlays.
func (o *Options) ShowOverlays() bool {
	return o.Overlays == nil || *o.Overlays
}

// Budget returns the per-run iteration budget, DefaultIterations when unset.
func (o *Options) Budget() int {
	if o.Iterations == nil {
		return DefaultIterations
	}
	return *o.Iterations
}

// annealOptions returns the scheduler options for run i.
func (o *Options) annealOptions(i int) anneal.Options {
	return anneal.Options{
		Iterations:         o.Budget(),
		Seed:               o.Seed + uint64(i),
		InitialTemperature: o.InitialTemperature,
		CoolingRate:        o.CoolingRate,
		InitialBuildings:   o.InitialBuildings,
	}
}

// String implements fmt.Stringer for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("runs=%d iterations=%d seed=%d formats=%v", o.Runs, o.Budget(), o.Seed, o.Formats)
}
