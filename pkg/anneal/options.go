package anneal

import (
	"math"

	"github.com/matzehuels/siteplan/pkg/energy"
	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/mutate"
)

// Defaults for the cooling schedule and initial population.
const (
	DefaultIterations         = 3000
	DefaultInitialTemperature = 1000.0
	DefaultCoolingRate        = 0.995
	DefaultInitialBuildings   = 10
	DefaultProgressInterval   = 100
)

// ProgressFunc receives the completed fraction of a run, in [0, 1].
// It is called from the annealing goroutine and must not block.
type ProgressFunc func(fraction float64)

// Options configures a single annealing run. Zero values select defaults,
// except Iterations which must be at least 1.
type Options struct {
	Iterations         int
	Seed               uint64
	InitialTemperature float64 // 0 selects DefaultInitialTemperature
	CoolingRate        float64 // in (0, 1]; 0 selects DefaultCoolingRate
	InitialBuildings   int     // 0 selects DefaultInitialBuildings
	ProgressInterval   int
	MoveStep           float64
	Weights            energy.Weights
	Progress           ProgressFunc
}

// ValidateAndSetDefaults rejects a non-positive budget and fills in every
// other unset field.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Iterations < 1 {
		return errors.New(errors.ErrCodeInvalidBudget, "iterations must be >= 1, got %d", o.Iterations)
	}
	if !(o.InitialTemperature >= 0) || math.IsInf(o.InitialTemperature, 1) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"initial temperature must be positive and finite (0 selects %g), got %g", DefaultInitialTemperature, o.InitialTemperature)
	}
	if !(o.CoolingRate >= 0 && o.CoolingRate <= 1) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cooling rate must be in (0, 1] (0 selects %g), got %g", DefaultCoolingRate, o.CoolingRate)
	}
	if o.InitialBuildings < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "initial buildings must be >= 0, got %d", o.InitialBuildings)
	}

	if o.InitialTemperature == 0 {
		o.InitialTemperature = DefaultInitialTemperature
	}
	if o.CoolingRate == 0 {
		o.CoolingRate = DefaultCoolingRate
	}
	if o.InitialBuildings == 0 {
		o.InitialBuildings = DefaultInitialBuildings
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.MoveStep <= 0 {
		o.MoveStep = mutate.DefaultMoveStep
	}
	if o.Weights.IsZero() {
		o.Weights = energy.DefaultWeights
	}
	return nil
}
