// Package anneal searches for low-energy layouts by simulated annealing.
//
// A [Scheduler] holds three pieces of state: the current layout, the best
// layout seen so far, and the temperature. Each [Scheduler.Step] mutates the
// current layout once, accepts or rejects the candidate with the Metropolis
// criterion, and cools the temperature geometrically. The run always uses its
// full iteration budget.
//
// A run is a pure function of its site, options, and seed. Runs share no
// state, so callers may execute several concurrently, one Scheduler each.
package anneal

import (
	"math"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/energy"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/mutate"
	"github.com/matzehuels/siteplan/pkg/site"
)

// Stats counts what happened during a run.
type Stats struct {
	Iterations       int                   `json:"iterations"`
	Accepted         int                   `json:"accepted"`
	Rejected         int                   `json:"rejected"`
	Improvements     int                   `json:"improvements"`
	Actions          map[mutate.Action]int `json:"-"`
	InitialEnergy    float64               `json:"initial_energy"`
	FinalTemperature float64               `json:"final_temperature"`
}

// Result is the best layout found by a run.
type Result struct {
	Layout layout.Layout `json:"layout"`
	Energy float64       `json:"energy"`
	Seed   uint64        `json:"seed"`
	Stats  Stats         `json:"stats"`
}

type state struct {
	layout layout.Layout
	energy float64
}

// Scheduler runs one annealing search. It is not safe for concurrent use.
type Scheduler struct {
	opts    Options
	score   energy.Func
	mutator *mutate.Mutator

	current     state
	best        state
	temperature float64
	step        int
	stats       Stats
}

// New validates cfg and opts and seeds the initial population. Configuration
// problems are reported here, never from Step.
func New(cfg site.Config, opts Options) (*Scheduler, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := mutate.NewSeeded(cfg, opts.Seed)
	m.MoveStep = opts.MoveStep

	s := &Scheduler{
		opts:        opts,
		score:       energy.Func{Auditor: audit.New(cfg), Weights: opts.Weights},
		mutator:     m,
		temperature: opts.InitialTemperature,
		stats:       Stats{Actions: make(map[mutate.Action]int)},
	}

	initial := m.Scatter(opts.InitialBuildings)
	s.current = state{layout: initial, energy: s.score.Energy(initial)}
	s.best = state{layout: initial.Clone(), energy: s.current.energy}
	s.stats.InitialEnergy = s.current.energy
	return s, nil
}

// Step performs one iteration. It returns false once the budget is spent.
func (s *Scheduler) Step() bool {
	if s.step >= s.opts.Iterations {
		return false
	}

	candidate, action := s.mutator.Mutate(s.current.layout)
	candidateEnergy := s.score.Energy(candidate)
	s.stats.Actions[action]++

	if s.accept(candidateEnergy) {
		s.current = state{layout: candidate, energy: candidateEnergy}
		s.stats.Accepted++
		if s.current.energy < s.best.energy {
			s.best = state{layout: s.current.layout.Clone(), energy: s.current.energy}
			s.stats.Improvements++
		}
	} else {
		s.stats.Rejected++
	}

	s.temperature *= s.opts.CoolingRate
	if s.opts.Progress != nil && s.step%s.opts.ProgressInterval == 0 {
		s.opts.Progress(float64(s.step) / float64(s.opts.Iterations))
	}
	s.step++
	return true
}

// accept applies the Metropolis criterion. A temperature that is zero,
// negative, or not finite rejects every non-improving candidate.
func (s *Scheduler) accept(candidateEnergy float64) bool {
	delta := candidateEnergy - s.current.energy
	if delta < 0 {
		return true
	}
	t := s.temperature
	if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return false
	}
	p := math.Exp(-delta / t)
	if math.IsNaN(p) {
		return false
	}
	return s.mutator.Rand().Float64() < p
}

// Temperature returns the current temperature.
func (s *Scheduler) Temperature() float64 { return s.temperature }

// Iteration returns the number of completed steps.
func (s *Scheduler) Iteration() int { return s.step }

// Iterations returns the run's budget.
func (s *Scheduler) Iterations() int { return s.opts.Iterations }

// CurrentEnergy returns the energy of the current layout.
func (s *Scheduler) CurrentEnergy() float64 { return s.current.energy }

// BestEnergy returns the lowest energy seen so far.
func (s *Scheduler) BestEnergy() float64 { return s.best.energy }

// Finish reports completion and returns the best layout. It may be called
// before the budget is spent, for example after cancellation.
func (s *Scheduler) Finish() Result {
	if s.opts.Progress != nil {
		s.opts.Progress(1.0)
	}
	stats := s.stats
	stats.Iterations = s.step
	stats.FinalTemperature = s.temperature
	return Result{
		Layout: s.best.layout.Clone(),
		Energy: s.best.energy,
		Seed:   s.opts.Seed,
		Stats:  stats,
	}
}

// Run steps until the budget is spent and returns the result.
func (s *Scheduler) Run() Result {
	for s.Step() {
	}
	return s.Finish()
}

// Optimize runs a complete search on cfg.
func Optimize(cfg site.Config, opts Options) (Result, error) {
	s, err := New(cfg, opts)
	if err != nil {
		return Result{}, err
	}
	return s.Run(), nil
}
