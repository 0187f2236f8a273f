// Package audit checks a layout against the site's placement rules and
// reports every broken rule as a typed [Violation].
//
// Four rule families are evaluated independently on every audit, and the
// result is always returned in the same order:
//
//  1. Boundary: each building must lie within the setback.
//  2. Plaza: no building may overlap the plaza.
//  3. Separation: each pair of buildings yields a collision when their edge
//     distance is exactly 0, or a proximity violation when it is below the
//     minimum gap.
//  4. Neighbor mix: each type A building needs a type B building within the
//     neighbor radius.
//
// Auditing never fails. Violations describe layout quality; they are inputs
// to the energy function and to renderers.
package audit

import (
	"github.com/matzehuels/siteplan/pkg/geom"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// Auditor evaluates layouts against one site config.
// It holds no mutable state and may be shared between goroutines.
type Auditor struct {
	buildable      geom.Rect
	plaza          geom.Rect
	minGap         float64
	neighborRadius float64
}

// New creates an auditor for cfg. The plaza and buildable area are computed
// once here rather than per audit.
func New(cfg site.Config) *Auditor {
	return &Auditor{
		buildable:      cfg.Buildable(),
		plaza:          cfg.Plaza(),
		minGap:         cfg.MinGap,
		neighborRadius: cfg.NeighborRadius,
	}
}

// Audit is a convenience wrapper for New(cfg).Audit(l).
func Audit(l layout.Layout, cfg site.Config) []Violation {
	return New(cfg).Audit(l)
}

// Audit returns every violation in l. The layout is not modified, and
// auditing the same layout twice yields identical sequences.
func (a *Auditor) Audit(l layout.Layout) []Violation {
	bs := l.Buildings
	// Rectangles are computed once; the pair scan below is quadratic.
	rects := make([]geom.Rect, len(bs))
	for i, b := range bs {
		rects[i] = b.Bounds()
	}

	var out []Violation
	for i, b := range bs {
		if !rects[i].Inside(a.buildable) {
			out = append(out, Boundary{Building: b.ID})
		}
	}
	for i, b := range bs {
		if geom.Overlaps(rects[i], a.plaza) {
			out = append(out, PlazaOverlap{Building: b.ID})
		}
	}
	for i := range bs {
		for j := i + 1; j < len(bs); j++ {
			d := geom.EdgeDistance(rects[i], rects[j])
			switch {
			case d == 0:
				out = append(out, Collision{A: bs[i].ID, B: bs[j].ID})
			case d < a.minGap:
				out = append(out, Proximity{A: bs[i].ID, B: bs[j].ID, Distance: d})
			}
		}
	}
	for i, b := range bs {
		if b.Type == layout.TypeA && !a.hasNeighbor(bs, rects, i) {
			out = append(out, NeighborMissing{Building: b.ID})
		}
	}
	return out
}

// hasNeighbor reports whether some other type B building lies within the
// neighbor radius of bs[i]. Self is excluded by index, not by type.
func (a *Auditor) hasNeighbor(bs []layout.Building, rects []geom.Rect, i int) bool {
	for j, other := range bs {
		if j == i || other.Type != layout.TypeB {
			continue
		}
		if geom.EdgeDistance(rects[i], rects[j]) <= a.neighborRadius {
			return true
		}
	}
	return false
}
