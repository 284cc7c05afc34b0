package impute

import (
	"goimpute/domain/matrix"
)

// RowCounts partitions the values of one row within one group.
// NLow + NHigh + NNaN always equals the group size.
type RowCounts struct {
	NLow  int // observed and at or below up_mnar
	NHigh int // observed and above up_mnar
	NNaN  int // missing
}

// CountRow computes the partition counts for one row against the boundary.
func CountRow(vals []float64, upMNAR float64) RowCounts {
	var c RowCounts
	for _, v := range vals {
		switch {
		case matrix.IsMissing(v):
			c.NNaN++
		case v > upMNAR:
			c.NHigh++
		default:
			c.NLow++
		}
	}
	return c
}

// Classify assigns the missingness class for partition counts over a group
// of size n. The guards are evaluated first-match-wins and are not mutually
// exclusive by construction (MAR is purely "none of the above"), so the
// order must not be changed:
//
//  1. n_low + n_nan == n   -> MNAR
//  2. n_high + n_nan == n  -> MCAR
//  3. n_high + n_low == n  -> NM
//  4. otherwise            -> MAR
//
// A fully observed row whose values all sit on one side of the boundary is
// captured by guard 1 or 2 before the NM guard runs. That is deliberate and
// harmless: such rows have no missing cells, so no imputer writes to them.
func Classify(c RowCounts, n int) MVClass {
	switch {
	case c.NLow+c.NNaN == n:
		return ClassMNAR
	case c.NHigh+c.NNaN == n:
		return ClassMCAR
	case c.NHigh+c.NLow == n:
		return ClassNM
	default:
		return ClassMAR
	}
}

// ClassifyGroup classifies every feature row of a group sub-matrix.
func ClassifyGroup(group *matrix.Matrix, upMNAR float64) []MVClass {
	n := group.Cols()
	classes := make([]MVClass, group.Rows())
	for i, row := range group.Values {
		classes[i] = Classify(CountRow(row, upMNAR), n)
	}
	return classes
}
