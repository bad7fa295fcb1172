package scoring

import (
	"fmt"
	"math"

	"github.com/sunscout/api/internal/models"
)

// weightTolerance is the allowed floating error when checking that the five
// component weights sum to 1.0.
const weightTolerance = 1e-6

// Weights distributes the overall score across the five component scorers.
// They must sum to 1.0 within weightTolerance.
type Weights struct {
	BillSize        float64 `json:"bill_size"`
	RoofSuitability float64 `json:"roof_suitability"`
	PropertyValue   float64 `json:"property_value"`
	NetMetering     float64 `json:"net_metering"`
	Homeowner       float64 `json:"homeowner"`
}

// Boundaries are the lower bounds of the qualification categories. A score at
// or above Excellent is excellent, at or above Good is good, and so on down to
// unsuitable as the catch-all below Poor. They must be strictly descending.
type Boundaries struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// Config holds every tunable of the scoring engine. It is validated once at
// load time and treated as immutable for the duration of a batch; scoring
// code assumes a valid config and never re-checks it.
//
// The default values are demo-calibrated starting points, not conversion-data
// ground truth. Operators are expected to tune them.
type Config struct {
	Weights             Weights    `json:"weights"`
	MinQualifyingBill   float64    `json:"min_qualifying_bill"`
	SaturationBill      float64    `json:"saturation_bill"`
	RegionalMedianValue float64    `json:"regional_median_value"`
	Boundaries          Boundaries `json:"boundaries"`
}

// ConfigurationError reports an invalid scoring configuration. It is raised
// only when a config is loaded or replaced, never during scoring.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid scoring configuration: %s: %s", e.Field, e.Reason)
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			BillSize:        0.30,
			RoofSuitability: 0.25,
			PropertyValue:   0.15,
			NetMetering:     0.20,
			Homeowner:       0.10,
		},
		MinQualifyingBill:   120,
		SaturationBill:      400,
		RegionalMedianValue: 350000,
		Boundaries: Boundaries{
			Excellent: 80,
			Good:      65,
			Average:   50,
			Poor:      35,
		},
	}
}

// Validate checks the config invariants: weights summing to 1.0, strictly
// descending category boundaries and sane bill/value anchors. It returns a
// *ConfigurationError describing the first violation found.
func (c Config) Validate() error {
	sum := c.Weights.BillSize + c.Weights.RoofSuitability + c.Weights.PropertyValue +
		c.Weights.NetMetering + c.Weights.Homeowner
	if math.Abs(sum-1.0) > weightTolerance {
		return &ConfigurationError{
			Field:  "weights",
			Reason: fmt.Sprintf("must sum to 1.0, got %g", sum),
		}
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"weights.bill_size", c.Weights.BillSize},
		{"weights.roof_suitability", c.Weights.RoofSuitability},
		{"weights.property_value", c.Weights.PropertyValue},
		{"weights.net_metering", c.Weights.NetMetering},
		{"weights.homeowner", c.Weights.Homeowner},
	} {
		if w.value < 0 {
			return &ConfigurationError{Field: w.name, Reason: "must be non-negative"}
		}
	}

	b := c.Boundaries
	if !(b.Excellent > b.Good && b.Good > b.Average && b.Average > b.Poor) {
		return &ConfigurationError{
			Field: "boundaries",
			Reason: fmt.Sprintf("must be strictly descending, got %d/%d/%d/%d",
				b.Excellent, b.Good, b.Average, b.Poor),
		}
	}
	if b.Poor <= 0 || b.Excellent > 100 {
		return &ConfigurationError{
			Field:  "boundaries",
			Reason: "must lie within (0,100]",
		}
	}

	if c.MinQualifyingBill <= 0 {
		return &ConfigurationError{Field: "min_qualifying_bill", Reason: "must be positive"}
	}
	if c.SaturationBill <= c.MinQualifyingBill {
		return &ConfigurationError{
			Field:  "saturation_bill",
			Reason: "must be greater than min_qualifying_bill",
		}
	}
	if c.RegionalMedianValue <= 0 {
		return &ConfigurationError{Field: "regional_median_value", Reason: "must be positive"}
	}

	return nil
}

// Categorize maps an overall score to its qualification category.
func (b Boundaries) Categorize(score int) models.Qualification {
	switch {
	case score >= b.Excellent:
		return models.QualificationExcellent
	case score >= b.Good:
		return models.QualificationGood
	case score >= b.Average:
		return models.QualificationAverage
	case score >= b.Poor:
		return models.QualificationPoor
	default:
		return models.QualificationUnsuitable
	}
}
