package cli

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/buildinfo"
	"github.com/matzehuels/siteplan/pkg/pipeline"
	"github.com/matzehuels/siteplan/pkg/site"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and output files.
	appName = "siteplan"

	// defaultOutputBase names outputs when no --output is given.
	defaultOutputBase = "layout"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// interactive reports whether progress may be drawn on stderr.
	interactive bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		interactive: isTerminal(w),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Siteplan lays out buildings on a site by simulated annealing",
		Long:         `Siteplan places buildings on a rectangular site under setback, plaza, spacing and neighbor rules, audits layouts against those rules, and renders them as SVG, text, JSON, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.auditCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.siteCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Helpers
// =============================================================================

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadSite reads a site file, or returns the default site when path is empty.
func loadSite(path string) (site.Config, error) {
	if path == "" {
		return site.Default(), nil
	}
	return site.Load(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.TrimSpace(f)
	}
	return formats
}

// extensions maps formats to output file extensions.
var extensions = map[string]string{
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatJSON: ".json",
	pipeline.FormatText: ".txt",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatPDF:  ".pdf",
}

// basePath derives the base output path. A known output extension is
// stripped so "plan.svg" and "plan" name the same set of files.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	for _, known := range extensions {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath names the file for one artifact. Multi-run batches get a
// 1-based run suffix.
func outputPath(base, format string, run, runs int) string {
	if runs > 1 {
		base += "_" + strconv.Itoa(run+1)
	}
	return base + extensions[format]
}
