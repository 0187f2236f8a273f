package audit

import "fmt"

// Kind identifies a violation family.
type Kind string

// Violation kinds, in the order the auditor scans for them.
const (
	KindBoundary        Kind = "boundary"
	KindPlazaOverlap    Kind = "plaza_overlap"
	KindCollision       Kind = "collision"
	KindProximity       Kind = "proximity"
	KindNeighborMissing Kind = "neighbor_missing"
)

// Kinds lists every violation kind in scan order.
var Kinds = []Kind{KindBoundary, KindPlazaOverlap, KindCollision, KindProximity, KindNeighborMissing}

// Violation is one broken placement rule. The concrete types are
// [Boundary], [PlazaOverlap], [Collision], [Proximity] and [NeighborMissing];
// the interface is sealed so a type switch over them is exhaustive.
//
// Violations refer to buildings by id only. They are valid for the layout
// snapshot they were computed from.
type Violation interface {
	Kind() Kind
	// BuildingIDs returns the ids of the buildings involved.
	BuildingIDs() []int
	String() string
	violation()
}

// Boundary reports a building with an edge outside the setback.
type Boundary struct{ Building int }

// PlazaOverlap reports a building overlapping the plaza.
type PlazaOverlap struct{ Building int }

// Collision reports two buildings that touch or overlap.
type Collision struct{ A, B int }

// Proximity reports two buildings closer than the minimum gap.
type Proximity struct {
	A, B     int
	Distance float64
}

// NeighborMissing reports a type A building with no type B within the
// neighbor radius.
type NeighborMissing struct{ Building int }

func (Boundary) Kind() Kind        { return KindBoundary }
func (PlazaOverlap) Kind() Kind    { return KindPlazaOverlap }
func (Collision) Kind() Kind       { return KindCollision }
func (Proximity) Kind() Kind       { return KindProximity }
func (NeighborMissing) Kind() Kind { return KindNeighborMissing }

func (v Boundary) BuildingIDs() []int        { return []int{v.Building} }
func (v PlazaOverlap) BuildingIDs() []int    { return []int{v.Building} }
func (v Collision) BuildingIDs() []int       { return []int{v.A, v.B} }
func (v Proximity) BuildingIDs() []int       { return []int{v.A, v.B} }
func (v NeighborMissing) BuildingIDs() []int { return []int{v.Building} }

func (v Boundary) String() string     { return fmt.Sprintf("boundary(#%d)", v.Building) }
func (v PlazaOverlap) String() string { return fmt.Sprintf("plaza_overlap(#%d)", v.Building) }
func (v Collision) String() string    { return fmt.Sprintf("collision(#%d, #%d)", v.A, v.B) }
func (v Proximity) String() string {
	return fmt.Sprintf("proximity(#%d, #%d, %.2f)", v.A, v.B, v.Distance)
}
func (v NeighborMissing) String() string { return fmt.Sprintf("neighbor_missing(#%d)", v.Building) }

func (Boundary) violation()        {}
func (PlazaOverlap) violation()    {}
func (Collision) violation()       {}
func (Proximity) violation()       {}
func (NeighborMissing) violation() {}
