package impute

import (
	"goimpute/domain/core"
)

// MVClass labels why the values of one (feature, group) pair are missing.
type MVClass string

const (
	// ClassMNAR: every observed value sits at or below the MNAR boundary;
	// missingness is plausibly detection-limit censoring.
	ClassMNAR MVClass = "MNAR"
	// ClassMCAR: every observed value sits above the boundary; missingness
	// looks unrelated to abundance.
	ClassMCAR MVClass = "MCAR"
	// ClassMAR: mixed above/below observations together with missing cells.
	// Not considered safe for automated imputation.
	ClassMAR MVClass = "MAR"
	// ClassNM: no missing values in the group.
	ClassNM MVClass = "NM"
)

// AllClasses lists every missingness class in imputation dispatch order.
var AllClasses = []MVClass{ClassMCAR, ClassMNAR, ClassMAR, ClassNM}

func (c MVClass) String() string { return string(c) }

// Options configures one imputation run.
type Options struct {
	// LocUpMNAR places the MNAR upper bound inside the detection range,
	// as a fraction of (d_max - d_min).
	LocUpMNAR float64 `json:"loc_up_mnar"`
	// MinCS is the confidence threshold; rows scoring below it keep their
	// missing cells untouched.
	MinCS float64 `json:"min_cs"`
	// StdFactor scales the spread of the left-censored fill distribution
	// relative to (up_mnar - d_min).
	StdFactor float64 `json:"std_factor"`
	// NNeighbors is the donor count for neighbor-based MCAR fills.
	NNeighbors int `json:"n_neighbors"`
	// Seed drives the left-censored sampler. Identical seeds reproduce
	// identical fills.
	Seed int64 `json:"seed"`
}

// DefaultOptions returns the standard parameterization.
func DefaultOptions() Options {
	return Options{
		LocUpMNAR:  0.2,
		MinCS:      0.5,
		StdFactor:  0.8,
		NNeighbors: 6,
		Seed:       42,
	}
}

// Validate fails fast on out-of-range parameters, before any computation.
func (o Options) Validate() error {
	if o.LocUpMNAR < 0 || o.LocUpMNAR > 1 {
		return core.NewConfigurationError("loc_up_mnar", "must be in [0,1]")
	}
	if o.MinCS < 0 || o.MinCS > 1 {
		return core.NewConfigurationError("min_cs", "must be in [0,1]")
	}
	if o.StdFactor <= 0 {
		return core.NewConfigurationError("std_factor", "must be positive")
	}
	if o.NNeighbors < 1 {
		return core.NewConfigurationError("n_neighbors", "must be at least 1")
	}
	return nil
}
