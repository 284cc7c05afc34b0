package impute

import (
	"github.com/montanaflynn/stats"

	"goimpute/domain/core"
	"goimpute/domain/matrix"
)

// Limits holds the data-set-wide boundary parameters, computed once over
// all group columns and frozen for the duration of one run.
type Limits struct {
	DMin   float64 `json:"d_min"`   // global minimum observed intensity (detection limit)
	DMax   float64 `json:"d_max"`   // global maximum observed intensity
	UpMNAR float64 `json:"up_mnar"` // upper bound separating MNAR from other MVs
}

// DetectionRange returns d_max - d_min.
func (l Limits) DetectionRange() float64 { return l.DMax - l.DMin }

// Degenerate reports whether the boundary collapsed onto the detection limit.
func (l Limits) Degenerate() bool { return l.UpMNAR == l.DMin }

// EstimateLimits computes d_min, d_max and up_mnar = d_min + locUpMNAR *
// (d_max - d_min) over the sub-matrix formed by all assigned columns.
// Missing cells are excluded. A matrix with zero observed cells has an
// undefined boundary and is rejected.
func EstimateLimits(m *matrix.Matrix, groups matrix.GroupAssignment, locUpMNAR float64) (Limits, error) {
	sub, err := m.Select(groups.AllColumns())
	if err != nil {
		return Limits{}, err
	}

	observed := make([]float64, 0, sub.Rows()*sub.Cols())
	for _, row := range sub.Values {
		for _, v := range row {
			if !matrix.IsMissing(v) {
				observed = append(observed, v)
			}
		}
	}
	if len(observed) == 0 {
		return Limits{}, core.ErrAllMissing
	}

	dMin, err := stats.Min(observed)
	if err != nil {
		return Limits{}, err
	}
	dMax, err := stats.Max(observed)
	if err != nil {
		return Limits{}, err
	}

	return Limits{
		DMin:   dMin,
		DMax:   dMax,
		UpMNAR: dMin + locUpMNAR*(dMax-dMin),
	}, nil
}
