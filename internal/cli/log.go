// Package cli implements the siteplan command-line interface.
//
// This package provides commands for optimizing layouts, auditing and
// rendering saved layouts, printing the site configuration, and serving the
// HTTP API. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - optimize: Anneal one or more layouts and write the requested formats
//   - audit: Check a saved layout against the site rules
//   - render: Render a saved layout as SVG, text, JSON, PNG or PDF
//   - site: Print the effective site configuration
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// held by [CLI] and shared with the pipeline runner and the server.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Optimized 4 layouts (1.234s)"
func (p *stopwatch) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
