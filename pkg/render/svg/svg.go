// Package svg draws site plans as SVG.
//
// A plan shows the site outline, the dashed setback line, the hatched plaza,
// and every building filled with its type color. Unless overlays are
// disabled, the audit is drawn on top: offending buildings get a red
// outline, proximity violations a red line between centers labelled with the
// gap, and type A buildings missing a neighbor a dotted circle of the
// neighbor radius.
//
// Site coordinates have their origin at the lower-left corner; the renderer
// flips the y axis so north is up.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// DefaultScale is the number of SVG pixels per site unit.
const DefaultScale = 4.0

// Colors used for each building type and for the overlays.
var TypeColors = map[layout.Type]string{
	layout.TypeA: "#3498db",
	layout.TypeB: "#e67e22",
}

const (
	colorSite      = "#f8f9fa"
	colorSetback   = "#cccccc"
	colorPlaza     = "#abebc6"
	colorPlazaEdge = "green"
	colorPlazaText = "#1d8348"
	colorOutline   = "#333333"
	colorViolation = "red"
	colorValid     = "green"
	fontFamily     = "Helvetica, Arial, sans-serif"
)

// margins around the site, in site units
const (
	marginSide   = 5.0
	marginBottom = 5.0
	marginTop    = 30.0
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale      float64
	title      string
	overlays   bool
	violations []audit.Violation
	audited    bool
}

// WithScale sets the pixels per site unit. Non-positive values are ignored.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithTitle replaces the generated title prefix ("Result N").
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithoutOverlays draws the plan without violation markup.
func WithoutOverlays() Option { return func(r *renderer) { r.overlays = false } }

// WithViolations supplies a precomputed audit instead of auditing again.
// It applies to [Render] only; sheets always audit each layout.
func WithViolations(vs []audit.Violation) Option {
	return func(r *renderer) {
		r.violations = vs
		r.audited = true
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: DefaultScale, overlays: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render draws a single layout.
func Render(l layout.Layout, cfg site.Config, opts ...Option) []byte {
	r := newRenderer(opts...)
	if !r.audited {
		r.violations = audit.Audit(l, cfg)
	}
	if r.title == "" {
		r.title = "Result 1"
	}

	w, h := panelSize(cfg, r.scale)
	var buf bytes.Buffer
	writeHeader(&buf, w, h)
	r.writePanel(&buf, l, cfg, r.title, r.violations)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderSheet draws several layouts side by side, titled "Result 1" to
// "Result N" unless a title is set, in which case it is numbered the same way.
func RenderSheet(ls []layout.Layout, cfg site.Config, opts ...Option) []byte {
	r := newRenderer(opts...)
	prefix := r.title
	if prefix == "" {
		prefix = "Result"
	}

	pw, ph := panelSize(cfg, r.scale)
	var buf bytes.Buffer
	writeHeader(&buf, pw*float64(max(len(ls), 1)), ph)
	auditor := audit.New(cfg)
	for i, l := range ls {
		fmt.Fprintf(&buf, `<g transform="translate(%.1f,0)">`+"\n", pw*float64(i))
		r.writePanel(&buf, l, cfg, fmt.Sprintf("%s %d", prefix, i+1), auditor.Audit(l))
		buf.WriteString("</g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func panelSize(cfg site.Config, scale float64) (w, h float64) {
	return (cfg.Width + 2*marginSide) * scale, (cfg.Height + marginBottom + marginTop) * scale
}

func writeHeader(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	buf.WriteString(`<defs>
  <pattern id="plaza-hatch" width="6" height="6" patternUnits="userSpaceOnUse">
    <circle cx="1.5" cy="1.5" r="0.8" fill="` + colorPlazaEdge + `" opacity="0.6"/>
    <circle cx="4.5" cy="4.5" r="0.8" fill="` + colorPlazaEdge + `" opacity="0.6"/>
  </pattern>
</defs>
`)
}

// frame maps site coordinates into panel pixels.
type frame struct {
	scale, height float64
}

func (f frame) x(v float64) float64 { return (v + marginSide) * f.scale }
func (f frame) y(v float64) float64 { return (marginTop + f.height - v) * f.scale }
func (f frame) d(v float64) float64 { return v * f.scale }

func (r *renderer) writePanel(buf *bytes.Buffer, l layout.Layout, cfg site.Config, title string, vs []audit.Violation) {
	f := frame{scale: r.scale, height: cfg.Height}
	rep := audit.Summarize(vs)

	// Site and setback.
	fmt.Fprintf(buf, `  <rect class="site" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="black" stroke-width="2"/>`+"\n",
		f.x(0), f.y(cfg.Height), f.d(cfg.Width), f.d(cfg.Height), colorSite)
	inner := cfg.Buildable()
	fmt.Fprintf(buf, `  <rect class="setback" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-dasharray="6,4"/>`+"\n",
		f.x(inner.MinX), f.y(inner.MaxY), f.d(inner.Width()), f.d(inner.Height()), colorSetback)

	// Plaza.
	p := cfg.Plaza()
	px, py := p.Center()
	fmt.Fprintf(buf, `  <rect class="plaza" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.5" stroke="%s" stroke-width="2"/>`+"\n",
		f.x(p.MinX), f.y(p.MaxY), f.d(p.Width()), f.d(p.Height()), colorPlaza, colorPlazaEdge)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#plaza-hatch)"/>`+"\n",
		f.x(p.MinX), f.y(p.MaxY), f.d(p.Width()), f.d(p.Height()))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-weight="bold" fill="%s">PLAZA</text>`+"\n",
		f.x(px), f.y(py), fontFamily, colorPlazaText)

	// Buildings.
	for _, b := range l.Buildings {
		stroke, width := colorOutline, 1
		if r.overlays && rep.Offends(b.ID) {
			stroke, width = colorViolation, 2
		}
		fill, ok := TypeColors[b.Type]
		if !ok {
			fill = "#999999"
		}
		cx, cy := b.Bounds().Center()
		fmt.Fprintf(buf, `  <rect class="building" id="building-%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.85" stroke="%s" stroke-width="%d"/>`+"\n",
			b.ID, f.x(b.X), f.y(b.Y+b.Height), f.d(b.Width), f.d(b.Height), fill, stroke, width)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%.0f" fill="white">%s</text>`+"\n",
			f.x(cx), f.y(cy), fontFamily, 2.5*r.scale, escape(string(b.Type)))
	}

	if r.overlays {
		r.writeOverlays(buf, f, l, cfg, vs)
	}

	// Title and stats.
	status, color := "VALID", colorValid
	if !rep.Valid {
		status, color = fmt.Sprintf("VIOLATIONS: %d", rep.Total), colorViolation
	}
	fmt.Fprintf(buf, `  <text class="title" x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s">%s: %s</text>`+"\n",
		f.x(cfg.Width/2), f.d(marginTop/2), fontFamily, 4*r.scale, color, escape(title), status)
	fmt.Fprintf(buf, `  <text class="stats" x="%.1f" y="%.1f" font-family="%s" font-size="%.0f">Count: %d | Area: %gm²</text>`+"\n",
		f.x(0), f.y(cfg.Height+2), fontFamily, 3*r.scale, l.Len(), l.TotalArea())
}

func (r *renderer) writeOverlays(buf *bytes.Buffer, f frame, l layout.Layout, cfg site.Config, vs []audit.Violation) {
	for _, v := range vs {
		switch v := v.(type) {
		case audit.Proximity:
			a, okA := l.Find(v.A)
			b, okB := l.Find(v.B)
			if !okA || !okB {
				continue
			}
			x1, y1 := a.Bounds().Center()
			x2, y2 := b.Bounds().Center()
			fmt.Fprintf(buf, `  <line class="proximity" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
				f.x(x1), f.y(y1), f.x(x2), f.y(y2), colorViolation)
			fmt.Fprintf(buf, `  <text class="gap" x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="bold" fill="%s" stroke="white" stroke-width="3" paint-order="stroke">%.1fm!</text>`+"\n",
				f.x((x1+x2)/2), f.y((y1+y2)/2), fontFamily, 2.5*r.scale, colorViolation, v.Distance)
		case audit.NeighborMissing:
			b, ok := l.Find(v.Building)
			if !ok {
				continue
			}
			cx, cy := b.Bounds().Center()
			fmt.Fprintf(buf, `  <circle class="neighbor-radius" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="0.5" stroke-dasharray="2,3"/>`+"\n",
				f.x(cx), f.y(cy), f.d(cfg.NeighborRadius), colorViolation)
		}
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
