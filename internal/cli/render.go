package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	sitePath   string
	formats    string
	output     string
	title      string
	scale      float64
	noOverlays bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a saved layout",
		Long: `Render audits a layout exported by "siteplan optimize -f json" and draws it.
PNG and PDF output requires rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sitePath, "site", "", "site config used when the layout omits its site")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, text, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().StringVar(&opts.title, "title", "", "figure title (default: Result 1)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "SVG pixels per site unit")
	cmd.Flags().BoolVar(&opts.noOverlays, "no-overlays", false, "omit violation overlays from SVG output")

	registerSiteCompletion(cmd)
	registerFormatCompletion(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	doc, err := readDocument(input, ro.sitePath)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Formats: parseFormats(ro.formats),
		Title:   ro.title,
		Scale:   ro.scale,
		Logger:  c.Logger,
	}
	if ro.noOverlays {
		off := false
		opts.Overlays = &off
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	// External conversion can take a moment; show a spinner for it.
	var spin *Spinner
	if c.interactive && (slices.Contains(opts.Formats, pipeline.FormatPNG) || slices.Contains(opts.Formats, pipeline.FormatPDF)) {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(input))
		spin.Start()
	}
	artifacts, err := pipeline.NewRunner(c.Logger).Render(ctx, doc, opts)
	if err != nil {
		if spin != nil {
			spin.StopWithError("Render failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	base := basePath(ro.output, strings.TrimSuffix(input, filepath.Ext(input)))
	printSuccess("Rendered %s  %s", input, statusLabel(audit.Summarize(doc.Violations)))
	for _, format := range opts.Formats {
		path := outputPath(base, format, 0, 1)
		if path == input {
			path = base + "_rendered" + extensions[format]
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
