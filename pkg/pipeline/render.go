package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/siteplan/pkg/errors"
	siteio "github.com/matzehuels/siteplan/pkg/io"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/observability"
	"github.com/matzehuels/siteplan/pkg/render"
	"github.com/matzehuels/siteplan/pkg/render/svg"
	"github.com/matzehuels/siteplan/pkg/render/text"
	"github.com/matzehuels/siteplan/pkg/site"
)

// pngScale is the raster scale relative to the SVG size.
const pngScale = 2.0

// Document returns the run as a layout document for export.
func (run RunResult) Document(cfg site.Config) siteio.Document {
	return siteio.Document{
		Site:       cfg,
		Layout:     run.Layout,
		Seed:       run.Seed,
		Energy:     run.Energy,
		Violations: run.Violations,
	}
}

// Render produces each format in opts.Formats for one audited layout.
//
// This is also the entry point for rendering a layout that was computed
// elsewhere: decode it with [siteio.ReadJSON] and pass the document here.
func (r *Runner) Render(ctx context.Context, doc siteio.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderDocument(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", time.Since(start))
	return artifacts, nil
}

func renderDocument(ctx context.Context, doc siteio.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var svgData []byte
	svgOnce := func() []byte {
		if svgData == nil {
			svgData = svg.Render(doc.Layout, doc.Site, svgOptions(opts, doc)...)
		}
		return svgData
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatJSON:
			data, err = siteio.MarshalJSON(doc)
		case FormatText:
			data = []byte(text.Render(doc.Layout, doc.Site, text.WithViolations(doc.Violations)))
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), pngScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options, doc siteio.Document) []svg.Option {
	return append(sheetOptions(opts), svg.WithViolations(doc.Violations))
}

func sheetOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	if opts.Scale > 0 {
		svgOpts = append(svgOpts, svg.WithScale(opts.Scale))
	}
	if !opts.ShowOverlays() {
		svgOpts = append(svgOpts, svg.WithoutOverlays())
	}
	return svgOpts
}

// RenderSheet draws every run of a result side by side.
func RenderSheet(res *Result, opts Options) []byte {
	ls := make([]layout.Layout, len(res.Runs))
	for i, run := range res.Runs {
		ls[i] = run.Layout
	}
	return svg.RenderSheet(ls, res.Site, sheetOptions(opts)...)
}
