package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when a weight group does not sum to one.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// ScoringModel selects how urgency items are scored.
type ScoringModel string

const (
	// ScoringAHP is the weighted multi-criteria composite score.
	ScoringAHP ScoringModel = "ahp"
	// ScoringAdditive is the legacy point-based score (status points plus ABC bonus).
	ScoringAdditive ScoringModel = "additive"
)

const weightTolerance = 1e-9

// Weights holds the criteria weights of the urgency composite. Each group sums to 1.
type Weights struct {
	// Top-level strategic weights.
	StockCriticality float64
	BusinessValue    float64
	OperationalRisk  float64

	// Stock criticality sub-weights.
	StockoutRisk float64
	StockLevel   float64

	// Business value sub-weights.
	InventoryValue float64
	ABC            float64

	// Operational risk sub-weights.
	DemandVariability float64
	LeadTimeRisk      float64
}

// DefaultWeights returns the production AHP weights.
func DefaultWeights() Weights {
	return Weights{
		StockCriticality:  0.50,
		BusinessValue:     0.30,
		OperationalRisk:   0.20,
		StockoutRisk:      0.60,
		StockLevel:        0.40,
		InventoryValue:    0.70,
		ABC:               0.30,
		DemandVariability: 0.50,
		LeadTimeRisk:      0.50,
	}
}

// AdditiveWeights returns equal weights on every level. Under the ahp model
// they reduce the composite to a plain average of the sub-scores. The additive
// model ignores weights.
func AdditiveWeights() Weights {
	third := 1.0 / 3.0
	return Weights{
		StockCriticality:  third,
		BusinessValue:     third,
		OperationalRisk:   1 - 2*third,
		StockoutRisk:      0.5,
		StockLevel:        0.5,
		InventoryValue:    0.5,
		ABC:               0.5,
		DemandVariability: 0.5,
		LeadTimeRisk:      0.5,
	}
}

// Validate checks that every weight is non-negative and each group sums to 1.
func (w Weights) Validate() error {
	groups := []struct {
		name   string
		values []float64
	}{
		{"strategic", []float64{w.StockCriticality, w.BusinessValue, w.OperationalRisk}},
		{"stock criticality", []float64{w.StockoutRisk, w.StockLevel}},
		{"business value", []float64{w.InventoryValue, w.ABC}},
		{"operational risk", []float64{w.DemandVariability, w.LeadTimeRisk}},
	}

	for _, g := range groups {
		sum := 0.0
		for _, v := range g.values {
			if v < 0 || math.IsNaN(v) {
				return fmt.Errorf("%w: %s group has a negative weight", ErrInvalidWeights, g.name)
			}
			sum += v
		}
		if math.Abs(sum-1) > weightTolerance {
			return fmt.Errorf("%w: %s group sums to %.6f", ErrInvalidWeights, g.name, sum)
		}
	}

	return nil
}

// UrgencyBands are the lower composite-score bounds of each urgency level.
type UrgencyBands struct {
	Critical float64
	High     float64
	Medium   float64
}

// Params holds every constant used by the engine.
type Params struct {
	ServiceLevelZ   float64 // z-score for the target service level
	OrderingCost    float64 // cost per order
	HoldingCostRate float64 // annual holding cost as a fraction of unit cost

	ClassAThreshold float64 // cumulative % upper bound of class A
	ClassBThreshold float64 // cumulative % upper bound of class B

	AuditVariancePct    float64 // |variance %| above which an audit is advised
	AccuracyVariancePct float64 // |variance %| above which a count is inaccurate
	SlowTurnoverRatio   float64 // turnover below which a class A item is slow

	Model   ScoringModel
	Weights Weights
	Bands   UrgencyBands
}

// DefaultParams returns the standard engine parameters.
func DefaultParams() Params {
	return Params{
		ServiceLevelZ:       1.65,
		OrderingCost:        50000,
		HoldingCostRate:     0.25,
		ClassAThreshold:     80,
		ClassBThreshold:     95,
		AuditVariancePct:    10,
		AccuracyVariancePct: 5,
		SlowTurnoverRatio:   4,
		Model:               ScoringAHP,
		Weights:             DefaultWeights(),
		Bands: UrgencyBands{
			Critical: 83,
			High:     58,
			Medium:   33,
		},
	}
}

// Validate checks the parameters for consistency.
func (p Params) Validate() error {
	switch p.Model {
	case ScoringAHP, ScoringAdditive:
	default:
		return fmt.Errorf("unknown scoring model %q", p.Model)
	}
	if p.ClassAThreshold <= 0 || p.ClassBThreshold < p.ClassAThreshold || p.ClassBThreshold > 100 {
		return fmt.Errorf("invalid ABC thresholds A=%.2f B=%.2f", p.ClassAThreshold, p.ClassBThreshold)
	}
	if !(p.Bands.Critical > p.Bands.High && p.Bands.High > p.Bands.Medium && p.Bands.Medium >= 0) {
		return fmt.Errorf("urgency bands must be strictly decreasing: %+v", p.Bands)
	}
	if p.OrderingCost < 0 || p.HoldingCostRate < 0 || p.ServiceLevelZ < 0 {
		return fmt.Errorf("cost parameters must be non-negative")
	}

	return p.Weights.Validate()
}
