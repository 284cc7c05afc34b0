package samplers

import (
	"context"
	"fmt"
	"math"
	"sort"

	"goimpute/domain/matrix"
)

// KNNImputer estimates missing cells from the k nearest feature rows of the
// same block, treating each row as a point in sample-space. Distances are
// nan-Euclidean: computed over columns observed in both rows and scaled by
// sqrt(total/observed) so rows with different missingness stay comparable.
// Donor values are combined by inverse-distance weighting.
type KNNImputer struct {
	nNeighbors int
}

// NewKNNImputer creates a neighbor-based imputer with the given donor count.
func NewKNNImputer(nNeighbors int) *KNNImputer {
	return &KNNImputer{nNeighbors: nNeighbors}
}

type donor struct {
	row  int
	dist float64
}

// Impute returns a copy of the block with missing cells replaced by
// neighbor estimates. Observed cells are numerically unchanged; row
// identity and column order are preserved. Cells for which no donor row
// has the column observed are left missing and reported as warnings.
func (k *KNNImputer) Impute(ctx context.Context, block *matrix.Matrix) (*matrix.Matrix, []string, error) {
	out := block.Clone()
	var warnings []string

	for r, row := range block.Values {
		if !hasMissing(row) {
			continue
		}

		donors := k.rankDonors(block, r)
		for c, v := range row {
			if !matrix.IsMissing(v) {
				continue
			}
			est, ok := k.estimate(block, donors, c)
			if !ok {
				warnings = append(warnings,
					fmt.Sprintf("feature %q: no donor observed column %q, cell left missing",
						block.FeatureIDs[r], block.Columns[c]))
				continue
			}
			out.Set(r, c, est)
		}
	}
	return out, warnings, nil
}

// rankDonors orders all other rows of the block by nan-Euclidean distance
// to row r. Rows sharing no observed column with r are unreachable.
func (k *KNNImputer) rankDonors(block *matrix.Matrix, r int) []donor {
	target := block.Values[r]
	total := float64(len(target))
	donors := make([]donor, 0, block.Rows()-1)

	for j, row := range block.Values {
		if j == r {
			continue
		}
		sumSq := 0.0
		used := 0
		for c := range target {
			if matrix.IsMissing(target[c]) || matrix.IsMissing(row[c]) {
				continue
			}
			d := target[c] - row[c]
			sumSq += d * d
			used++
		}
		if used == 0 {
			continue
		}
		donors = append(donors, donor{row: j, dist: math.Sqrt(sumSq * total / float64(used))})
	}

	sort.Slice(donors, func(a, b int) bool { return donors[a].dist < donors[b].dist })
	return donors
}

// estimate combines up to nNeighbors donors that have column c observed.
// Zero-distance donors are averaged uniformly; otherwise weights are 1/d.
func (k *KNNImputer) estimate(block *matrix.Matrix, donors []donor, c int) (float64, bool) {
	picked := make([]donor, 0, k.nNeighbors)
	for _, d := range donors {
		if matrix.IsMissing(block.Values[d.row][c]) {
			continue
		}
		picked = append(picked, d)
		if len(picked) == k.nNeighbors {
			break
		}
	}
	if len(picked) == 0 {
		return 0, false
	}

	var zeroSum float64
	zeroCount := 0
	for _, d := range picked {
		if d.dist == 0 {
			zeroSum += block.Values[d.row][c]
			zeroCount++
		}
	}
	if zeroCount > 0 {
		return zeroSum / float64(zeroCount), true
	}

	var weighted, weightSum float64
	for _, d := range picked {
		w := 1 / d.dist
		weighted += w * block.Values[d.row][c]
		weightSum += w
	}
	return weighted / weightSum, true
}

func hasMissing(row []float64) bool {
	for _, v := range row {
		if matrix.IsMissing(v) {
			return true
		}
	}
	return false
}
