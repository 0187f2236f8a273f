// Package geom provides pure functions on axis-aligned rectangles.
//
// All coordinates are abstract site-distance units with the origin at the
// lower-left corner of the site. Functions in this package never fail and
// accept degenerate (zero-area) rectangles.
package geom

import "math"

// Rect is an axis-aligned rectangle described by its min and max corners.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NewRect builds a rectangle from its lower-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the width times height of r.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Inset shrinks r by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
}

// Inside reports whether every edge of r lies within outer.
// Edges that coincide with outer's edges count as inside.
func (r Rect) Inside(outer Rect) bool {
	return r.MinX >= outer.MinX && r.MinY >= outer.MinY &&
		r.MaxX <= outer.MaxX && r.MaxY <= outer.MaxY
}

// EdgeDistance returns the minimum Euclidean distance between the boundaries
// of r1 and r2. It is exactly 0 when the rectangles touch or overlap.
func EdgeDistance(r1, r2 Rect) float64 {
	dx := max(0, r2.MinX-r1.MaxX, r1.MinX-r2.MaxX)
	dy := max(0, r2.MinY-r1.MaxY, r1.MinY-r2.MaxY)
	return math.Sqrt(dx*dx + dy*dy)
}

// Overlaps reports whether r1 and r2 share interior area.
// Rectangles that only touch along an edge or corner do not overlap.
func Overlaps(r1, r2 Rect) bool {
	return !(r1.MaxX <= r2.MinX || r1.MinX >= r2.MaxX ||
		r1.MaxY <= r2.MinY || r1.MinY >= r2.MaxY)
}
