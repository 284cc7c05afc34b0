package samplers

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"goimpute/domain/impute"
	"goimpute/domain/matrix"
)

// MNARSampler fills left-censored missing values by sampling a standard
// normal truncated to [0,1] and rescaling with location d_min and scale
// std = (up_mnar - d_min) * std_factor. Every draw therefore lands in
// [d_min, d_min + std]. One independent draw per missing cell.
type MNARSampler struct {
	limits    impute.Limits
	stdFactor float64
	rng       *rand.Rand
}

// NewMNARSampler creates a sampler for one run's frozen limits. The RNG
// must come from a seeded stream so fills are reproducible.
func NewMNARSampler(limits impute.Limits, stdFactor float64, rng *rand.Rand) *MNARSampler {
	return &MNARSampler{limits: limits, stdFactor: stdFactor, rng: rng}
}

// Impute returns a copy of the block with every missing cell replaced by a
// truncated-normal draw. Observed cells are left untouched. A degenerate
// boundary (up_mnar == d_min) collapses the distribution to a point mass;
// the sampler then fills with the constant d_min and reports a warning
// instead of failing.
func (s *MNARSampler) Impute(ctx context.Context, block *matrix.Matrix) (*matrix.Matrix, []string, error) {
	out := block.Clone()
	std := (s.limits.UpMNAR - s.limits.DMin) * s.stdFactor

	if std == 0 {
		n := 0
		for r := range out.Values {
			for c, v := range out.Values[r] {
				if matrix.IsMissing(v) {
					out.Set(r, c, s.limits.DMin)
					n++
				}
			}
		}
		if n == 0 {
			return out, nil, nil
		}
		warn := fmt.Sprintf("degenerate boundary: filled %d cells with constant d_min=%g", n, s.limits.DMin)
		return out, []string{warn}, nil
	}

	normal := distuv.UnitNormal
	lo := normal.CDF(0)
	hi := normal.CDF(1)

	for r := range out.Values {
		for c, v := range out.Values[r] {
			if !matrix.IsMissing(v) {
				continue
			}
			// Inverse-CDF draw from the standard normal truncated to [0,1],
			// rescaled by loc/scale.
			u := lo + s.rng.Float64()*(hi-lo)
			z := normal.Quantile(u)
			out.Set(r, c, s.limits.DMin+std*z)
		}
	}
	return out, nil, nil
}
