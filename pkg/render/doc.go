// Package render turns audited layouts into pictures.
//
// The [svg] subpackage draws a site plan with violation overlays, and the
// [text] subpackage draws a character grid for terminals. Both read the same
// audit results the optimizer uses, so what is highlighted is exactly what
// the energy function penalized.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	out := svg.Render(l, cfg)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/siteplan/pkg/render/svg
// [text]: github.com/matzehuels/siteplan/pkg/render/text
package render
