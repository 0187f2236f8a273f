// Package text draws layouts as character grids for terminals.
//
// Each cell samples the site at its center point. Cells show the building
// type letter, '~' for the plaza, ':' for the setback margin, '.' for open
// buildable ground, and '#' where two or more buildings overlap. Buildings
// involved in a violation are drawn in lower case, or in red when color is
// enabled.
package text

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// DefaultCellSize is the site distance covered by one character.
const DefaultCellSize = 5.0

// Grid glyphs.
const (
	GlyphOpen    = '.'
	GlyphSetback = ':'
	GlyphPlaza   = '~'
	GlyphOverlap = '#'
)

var (
	styleA       = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	styleB       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e67e22"))
	styleOffend  = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)
	stylePlaza   = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleHeading = lipgloss.NewStyle().Bold(true)
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	cell       float64
	color      bool
	legend     bool
	violations []audit.Violation
	audited    bool
}

// WithCellSize sets the site distance per character. Non-positive values
// are ignored.
func WithCellSize(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.cell = s
		}
	}
}

// WithColor enables lipgloss styling of the grid.
func WithColor() Option { return func(r *renderer) { r.color = true } }

// WithoutLegend omits the summary and violation list below the grid.
func WithoutLegend() Option { return func(r *renderer) { r.legend = false } }

// WithViolations supplies a precomputed audit.
func WithViolations(vs []audit.Violation) Option {
	return func(r *renderer) {
		r.violations = vs
		r.audited = true
	}
}

// Render returns the grid followed by the audit summary.
func Render(l layout.Layout, cfg site.Config, opts ...Option) string {
	r := renderer{cell: DefaultCellSize, legend: true}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.audited {
		r.violations = audit.Audit(l, cfg)
	}
	rep := audit.Summarize(r.violations)

	var sb strings.Builder
	for _, row := range Grid(l, cfg, r.cell, rep) {
		for _, c := range row {
			sb.WriteString(r.glyph(c))
		}
		sb.WriteByte('\n')
	}
	if r.legend {
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "%s %d buildings, area %g\n", r.style(styleHeading, "Layout:"), l.Len(), l.TotalArea())
		fmt.Fprintf(&sb, "%s %s\n", r.style(styleHeading, "Audit:"), rep.Summary)
		WriteViolations(&sb, r.violations)
	}
	return sb.String()
}

// Grid rasterizes l into rows of glyphs, top row first. Building cells hold
// the type letter, lower-cased for buildings listed in rep.Offenders.
func Grid(l layout.Layout, cfg site.Config, cell float64, rep audit.Report) [][]rune {
	cols := int(math.Ceil(cfg.Width / cell))
	rows := int(math.Ceil(cfg.Height / cell))
	buildable, plaza := cfg.Buildable(), cfg.Plaza()

	grid := make([][]rune, rows)
	for r := range rows {
		grid[r] = make([]rune, cols)
		y := cfg.Height - (float64(r)+0.5)*cell
		for c := range cols {
			x := (float64(c) + 0.5) * cell
			switch {
			case contains(plaza.MinX, plaza.MinY, plaza.MaxX, plaza.MaxY, x, y):
				grid[r][c] = GlyphPlaza
			case contains(buildable.MinX, buildable.MinY, buildable.MaxX, buildable.MaxY, x, y):
				grid[r][c] = GlyphOpen
			default:
				grid[r][c] = GlyphSetback
			}
		}
	}

	hits := make([][]int, rows)
	for r := range hits {
		hits[r] = make([]int, cols)
	}
	for _, b := range l.Buildings {
		glyph := rune(string(b.Type)[0])
		if rep.Offends(b.ID) {
			glyph = rune(strings.ToLower(string(b.Type))[0])
		}
		for r := range rows {
			y := cfg.Height - (float64(r)+0.5)*cell
			for c := range cols {
				x := (float64(c) + 0.5) * cell
				if !contains(b.X, b.Y, b.X+b.Width, b.Y+b.Height, x, y) {
					continue
				}
				hits[r][c]++
				if hits[r][c] > 1 {
					grid[r][c] = GlyphOverlap
				} else {
					grid[r][c] = glyph
				}
			}
		}
	}
	return grid
}

// WriteViolations writes one line per violation.
func WriteViolations(w io.Writer, vs []audit.Violation) {
	for i, v := range vs {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, v)
	}
}

func contains(minX, minY, maxX, maxY, x, y float64) bool {
	return x >= minX && x < maxX && y >= minY && y < maxY
}

func (r *renderer) glyph(c rune) string {
	s := string(c)
	if !r.color {
		return s
	}
	switch c {
	case 'A':
		return styleA.Render(s)
	case 'B':
		return styleB.Render(s)
	case 'a', 'b', GlyphOverlap:
		return styleOffend.Render(s)
	case GlyphPlaza:
		return stylePlaza.Render(s)
	case GlyphSetback:
		return styleMuted.Render(s)
	}
	return s
}

func (r *renderer) style(st lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return st.Render(s)
}
