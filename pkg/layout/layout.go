// Package layout defines the building and layout model searched by the
// optimizer.
//
// A [Layout] is a plain value: its building slice holds values rather than
// pointers, and [Layout.Clone] returns a copy that shares no storage with the
// original. The optimizer relies on this to keep its current, best, and
// candidate layouts independent.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/siteplan/pkg/geom"
)

// Type is the building type tag.
type Type string

// Building types. Every type has a canonical footprint in the site config.
const (
	TypeA Type = "A"
	TypeB Type = "B"
)

// Types lists every building type in canonical order.
var Types = []Type{TypeA, TypeB}

// ParseType converts a case-insensitive type name into a [Type].
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TypeA):
		return TypeA, nil
	case string(TypeB):
		return TypeB, nil
	}
	return "", fmt.Errorf("unknown building type %q (must be A or B)", s)
}

// Building is a rectangle placed on the site.
// ID is unique within a run and is used only to cross-reference violations.
type Building struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Type   Type    `json:"type"`
}

// Bounds returns the building's bounding box (x, y, x+width, y+height).
func (b Building) Bounds() geom.Rect {
	return geom.NewRect(b.X, b.Y, b.Width, b.Height)
}

// Area returns the footprint area of the building.
func (b Building) Area() float64 {
	return b.Width * b.Height
}

// SwapDims exchanges the building's width and height.
func (b *Building) SwapDims() {
	b.Width, b.Height = b.Height, b.Width
}

// Layout is an ordered collection of buildings plus the id source used to
// number new ones. NextID holds the last id handed out.
type Layout struct {
	Buildings []Building `json:"buildings"`
	NextID    int        `json:"next_id"`
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	return Layout{
		Buildings: slices.Clone(l.Buildings),
		NextID:    l.NextID,
	}
}

// Len returns the number of buildings.
func (l Layout) Len() int { return len(l.Buildings) }

// Add appends a building, assigning it the next id, and returns that id.
// The counter is incremented before use, so the first id is 1.
func (l *Layout) Add(b Building) int {
	l.NextID++
	b.ID = l.NextID
	l.Buildings = append(l.Buildings, b)
	return b.ID
}

// Remove deletes the building at index i, preserving the order of the rest.
func (l *Layout) Remove(i int) {
	l.Buildings = slices.Delete(l.Buildings, i, i+1)
}

// Find returns the building with the given id.
func (l Layout) Find(id int) (Building, bool) {
	for _, b := range l.Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

// TotalArea sums width times height over all buildings, including ones that
// overlap or lie out of bounds.
func (l Layout) TotalArea() float64 {
	var total float64
	for _, b := range l.Buildings {
		total += b.Area()
	}
	return total
}

// CountByType returns how many buildings of each type the layout holds.
func (l Layout) CountByType() map[Type]int {
	counts := make(map[Type]int, len(Types))
	for _, b := range l.Buildings {
		counts[b.Type]++
	}
	return counts
}

// Validate checks that ids are positive, unique, and not ahead of NextID,
// and that every building has a known type and non-negative size.
// Layouts built by the optimizer always pass; imported layouts may not.
func (l Layout) Validate() error {
	seen := make(map[int]bool, len(l.Buildings))
	for _, b := range l.Buildings {
		if b.ID <= 0 {
			return fmt.Errorf("building id %d must be positive", b.ID)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate building id %d", b.ID)
		}
		seen[b.ID] = true
		if b.ID > l.NextID {
			return fmt.Errorf("building id %d exceeds next_id %d", b.ID, l.NextID)
		}
		if _, err := ParseType(string(b.Type)); err != nil {
			return fmt.Errorf("building %d: %w", b.ID, err)
		}
		if b.Width < 0 || b.Height < 0 {
			return fmt.Errorf("building %d has negative size %gx%g", b.ID, b.Width, b.Height)
		}
	}
	return nil
}
