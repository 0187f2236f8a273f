package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

func build(bs ...layout.Building) layout.Layout {
	var l layout.Layout
	for _, b := range bs {
		l.Add(b)
	}
	return l
}

func TestGridDimensions(t *testing.T) {
	g := Grid(layout.Layout{}, site.Default(), DefaultCellSize, audit.Report{})
	if len(g) != 28 || len(g[0]) != 40 {
		t.Fatalf("grid = %dx%d, want 40x28", len(g[0]), len(g))
	}
	if g[0][0] != GlyphSetback || g[27][39] != GlyphSetback {
		t.Error("corners should be setback")
	}
	if g[2][2] != GlyphOpen {
		t.Errorf("g[2][2] = %q, want open", g[2][2])
	}
	// Plaza spans x 80..120, y 50..90: columns 16..23, rows 10..17.
	if g[10][16] != GlyphPlaza || g[17][23] != GlyphPlaza || g[9][16] == GlyphPlaza {
		t.Error("plaza cells misplaced")
	}
}

func TestGridBuildings(t *testing.T) {
	cfg := site.Default()
	l := build(
		layout.Building{X: 20, Y: 120, Width: 10, Height: 10, Type: layout.TypeB},
		layout.Building{X: 150, Y: 20, Width: 10, Height: 10, Type: layout.TypeB},
		layout.Building{X: 150, Y: 20, Width: 10, Height: 10, Type: layout.TypeB},
	)
	rep := audit.Summarize(audit.Audit(l, cfg))
	g := Grid(l, cfg, DefaultCellSize, rep)

	// #1 covers x 20..30 and y 120..130, i.e. columns 4..5 and rows 2..3.
	if g[2][4] != 'B' || g[3][5] != 'B' {
		t.Errorf("building #1 cells = %q %q", g[2][4], g[3][5])
	}
	// #2 and #3 collide.
	if g[22][30] != GlyphOverlap {
		t.Errorf("overlap cell = %q", g[22][30])
	}
}

func TestOffendersAreLowerCase(t *testing.T) {
	cfg := site.Default()
	l := build(layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA})
	out := Render(l, cfg, WithoutLegend())
	if strings.ContainsRune(out, 'A') || !strings.ContainsRune(out, 'a') {
		t.Errorf("lonely A should be drawn as offender:\n%s", out)
	}
}

func TestRenderLegend(t *testing.T) {
	cfg := site.Default()
	l := build(
		layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA},
		layout.Building{X: 55, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
	)
	out := Render(l, cfg)
	for _, want := range []string{
		"Layout: 2 buildings, area 1000",
		"Audit: 1 violations: 1 proximity",
		"1. proximity(#1, #2, 5.00)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderValid(t *testing.T) {
	l := build(
		layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA},
		layout.Building{X: 70, Y: 20, Width: 20, Height: 20, Type: layout.TypeB},
	)
	out := Render(l, site.Default(), WithCellSize(10))
	if !strings.Contains(out, "Audit: valid") {
		t.Errorf("want valid summary:\n%s", out)
	}
	if lines := strings.Split(out, "\n"); len(lines[0]) != 20 {
		t.Errorf("row width = %d, want 20", len(lines[0]))
	}
}
