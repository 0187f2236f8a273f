// Package mutate generates candidate layouts by applying one random
// perturbation to an existing layout.
//
// Every call works on a clone of its input, so callers may keep the original
// as their current or best state without copying it first.
package mutate

import (
	"math/rand/v2"

	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// DefaultMoveStep bounds the per-axis offset of a move, in site units.
const DefaultMoveStep = 10.0

// Action identifies the perturbation applied by [Mutator.Mutate].
type Action int

const (
	Move Action = iota
	SwapDim
	Delete
	Add
)

func (a Action) String() string {
	switch a {
	case Move:
		return "move"
	case SwapDim:
		return "swap_dim"
	case Delete:
		return "delete"
	case Add:
		return "add"
	}
	return "unknown"
}

// actionTable maps a uniform draw onto actions. Move appears twice so it is
// chosen twice as often as the rest.
var actionTable = [...]Action{Move, Move, SwapDim, Delete, Add}

// Mutator applies random moves to layouts on a fixed site.
// A Mutator is not safe for concurrent use because it owns its random source.
type Mutator struct {
	cfg      site.Config
	rng      *rand.Rand
	MoveStep float64
}

// New returns a Mutator drawing from rng. The site config must already be
// validated; [Mutator.RandomBuilding] assumes every footprint fits inside the
// buildable area.
func New(cfg site.Config, rng *rand.Rand) *Mutator {
	return &Mutator{cfg: cfg, rng: rng, MoveStep: DefaultMoveStep}
}

// NewSeeded returns a Mutator with its own PCG source derived from seed.
func NewSeeded(cfg site.Config, seed uint64) *Mutator {
	return New(cfg, NewRand(seed))
}

// NewRand returns the deterministic random source used for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Rand exposes the mutator's random source so the scheduler can draw its
// acceptance samples from the same stream.
func (m *Mutator) Rand() *rand.Rand { return m.rng }

// Mutate returns a perturbed copy of l and the action that produced it.
// An empty layout always receives an add.
func (m *Mutator) Mutate(l layout.Layout) (layout.Layout, Action) {
	next := l.Clone()
	action := actionTable[m.rng.IntN(len(actionTable))]
	if next.Len() == 0 {
		action = Add
	}

	switch action {
	case Move:
		b := &next.Buildings[m.rng.IntN(next.Len())]
		b.X += m.uniform(-m.MoveStep, m.MoveStep)
		b.Y += m.uniform(-m.MoveStep, m.MoveStep)
	case SwapDim:
		next.Buildings[m.rng.IntN(next.Len())].SwapDims()
	case Delete:
		next.Remove(m.rng.IntN(next.Len()))
	case Add:
		next.Add(m.RandomBuilding())
	}
	return next, action
}

// RandomBuilding returns an unnumbered building of a random type whose
// footprint lies entirely inside the buildable area.
func (m *Mutator) RandomBuilding() layout.Building {
	b := m.randomShape(true)
	area := m.cfg.Buildable()
	b.X = m.uniform(area.MinX, area.MaxX-b.Width)
	b.Y = m.uniform(area.MinY, area.MaxY-b.Height)
	return b
}

// Scatter returns a layout of n buildings with random types placed uniformly
// over the whole site, ignoring the setback and footprint extent. Buildings
// keep their canonical orientation.
func (m *Mutator) Scatter(n int) layout.Layout {
	var l layout.Layout
	for range n {
		b := m.randomShape(false)
		b.X = m.uniform(0, m.cfg.Width)
		b.Y = m.uniform(0, m.cfg.Height)
		l.Add(b)
	}
	return l
}

func (m *Mutator) randomShape(maySwap bool) layout.Building {
	t := layout.Types[m.rng.IntN(len(layout.Types))]
	fp := m.cfg.Footprints.Of(t)
	b := layout.Building{Width: fp.Width, Height: fp.Height, Type: t}
	if maySwap && m.rng.IntN(2) == 0 {
		b.SwapDims()
	}
	return b
}

func (m *Mutator) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}
