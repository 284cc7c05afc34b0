package impute

// behavior describes how one missingness class is handled: how its rows
// are scored and whether qualifying rows are dispatched to an imputer.
// A static table replaces per-class string comparisons scattered through
// the scoring and imputation paths.
type behavior struct {
	score   func(nNaN, n int) float64
	imputes bool
}

var behaviors = map[MVClass]behavior{
	// Nothing missing: full certainty, nothing to impute.
	ClassNM: {
		score:   func(nNaN, n int) float64 { return 1 },
		imputes: false,
	},
	// MAR patterns are never trusted for automated imputation.
	ClassMAR: {
		score:   func(nNaN, n int) float64 { return 0 },
		imputes: false,
	},
	// Confidence grows with the fraction of observed values: more donors
	// available for neighbor estimation.
	ClassMCAR: {
		score:   func(nNaN, n int) float64 { return Round2(float64(n-nNaN) / float64(n)) },
		imputes: true,
	},
	// Confidence grows with the fraction of missing values: stronger
	// censoring signal.
	ClassMNAR: {
		score:   func(nNaN, n int) float64 { return Round2(float64(nNaN) / float64(n)) },
		imputes: true,
	},
}

func behaviorFor(class MVClass) behavior {
	return behaviors[class]
}

// Imputes reports whether rows of this class are eligible for imputation
// at all (threshold permitting).
func (c MVClass) Imputes() bool {
	return behaviorFor(c).imputes
}
