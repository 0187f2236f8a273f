// Package energy reduces a layout to a single comparable score.
//
// Energy is the sum of a fixed penalty per violation minus a reward
// proportional to total footprint area. Lower is better: a valid layout with
// the most built area has the most negative energy.
package energy

import (
	"fmt"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/layout"
)

// Weights holds the penalty per violation instance and the area reward.
type Weights struct {
	Collision       float64 `json:"collision"`
	PlazaOverlap    float64 `json:"plaza_overlap"`
	Boundary        float64 `json:"boundary"`
	Proximity       float64 `json:"proximity"`
	NeighborMissing float64 `json:"neighbor_missing"`
	AreaReward      float64 `json:"area_reward"`
}

// DefaultWeights are the standard penalties.
var DefaultWeights = Weights{
	Collision:       10000,
	PlazaOverlap:    10000,
	Boundary:        5000,
	Proximity:       1000,
	NeighborMissing: 500,
	AreaReward:      0.1,
}

// IsZero reports whether w is unset.
func (w Weights) IsZero() bool { return w == Weights{} }

// Penalty returns the cost of a single violation.
func (w Weights) Penalty(v audit.Violation) float64 {
	switch v.(type) {
	case audit.Collision:
		return w.Collision
	case audit.PlazaOverlap:
		return w.PlazaOverlap
	case audit.Boundary:
		return w.Boundary
	case audit.Proximity:
		return w.Proximity
	case audit.NeighborMissing:
		return w.NeighborMissing
	}
	panic(fmt.Sprintf("energy: unhandled violation %T", v))
}

// Evaluate scores a layout given its violations. Penalties add up per
// violation instance without a cap; area counts every building, including
// ones that are out of bounds or overlapping.
func (w Weights) Evaluate(l layout.Layout, violations []audit.Violation) float64 {
	var penalty float64
	for _, v := range violations {
		penalty += w.Penalty(v)
	}
	return penalty - w.AreaReward*l.TotalArea()
}

// Func scores layouts against a fixed auditor.
type Func struct {
	Auditor *audit.Auditor
	Weights Weights
}

// Energy audits l and returns its energy.
func (f Func) Energy(l layout.Layout) float64 {
	return f.Weights.Evaluate(l, f.Auditor.Audit(l))
}

// Breakdown is the energy of a layout split into its terms.
type Breakdown struct {
	Penalties  map[audit.Kind]float64 `json:"penalties"`
	Penalty    float64                `json:"penalty"`
	Area       float64                `json:"area"`
	AreaReward float64                `json:"area_reward"`
	Total      float64                `json:"total"`
}

// Explain returns the per-kind penalty totals behind Evaluate.
func (w Weights) Explain(l layout.Layout, violations []audit.Violation) Breakdown {
	b := Breakdown{Penalties: make(map[audit.Kind]float64), Area: l.TotalArea()}
	for _, v := range violations {
		p := w.Penalty(v)
		b.Penalties[v.Kind()] += p
		b.Penalty += p
	}
	b.AreaReward = w.AreaReward * b.Area
	b.Total = b.Penalty - b.AreaReward
	return b
}
