package impute

import (
	"math"

	"goimpute/domain/matrix"
)

// Score computes the confidence score for one row given its assigned class
// and group size n. Scores are in [0,1], rounded to 2 decimals, and are
// computed independently per row.
func Score(vals []float64, class MVClass, n int) float64 {
	nNaN := 0
	for _, v := range vals {
		if matrix.IsMissing(v) {
			nNaN++
		}
	}
	return behaviorFor(class).score(nNaN, n)
}

// ScoreGroup scores every row of a group sub-matrix against its class.
func ScoreGroup(group *matrix.Matrix, classes []MVClass) []float64 {
	n := group.Cols()
	scores := make([]float64, group.Rows())
	for i, row := range group.Values {
		scores[i] = Score(row, classes[i], n)
	}
	return scores
}

// Round2 rounds to two decimal places, the precision of all reported
// confidence scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
