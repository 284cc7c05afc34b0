package app

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goimpute/adapters/rng"
	"goimpute/domain/core"
	"goimpute/domain/impute"
	"goimpute/domain/matrix"
)

func nan() float64 { return math.NaN() }

func testOptions() impute.Options {
	return impute.Options{
		LocUpMNAR:  0.1,
		MinCS:      0.5,
		StdFactor:  0.5,
		NNeighbors: 6,
		Seed:       7,
	}
}

// Two groups of three samples. Global d_min=2, d_max=22, loc 0.1 puts
// up_mnar at 4. Group B rows are complete and mixed-sided, so every B row
// is NM. Group A exercises every class:
//
//	P1  [2 3 NaN]   MNAR, CS 0.33 (below threshold, stays missing)
//	P2  [NaN NaN 3] MNAR, CS 0.67 (imputed from the left-censored fill)
//	P3  [10 12 14]  MCAR (fully observed, all high), CS 1
//	P4  [5 NaN 22]  MCAR, CS 0.67 (imputed from neighbor P3)
//	P5  [2 22 NaN]  MAR,  CS 0    (never imputed)
func testFixture(t *testing.T) (*matrix.Matrix, matrix.GroupAssignment) {
	t.Helper()
	m, err := matrix.New(
		[]string{"P1", "P2", "P3", "P4", "P5"},
		[]string{"A1", "A2", "A3", "B1", "B2", "B3"},
		[][]float64{
			{2, 3, nan(), 3, 6, 7},
			{nan(), nan(), 3, 3.5, 6, 7},
			{10, 12, 14, 3, 6, 7},
			{5, nan(), 22, 3, 6, 7},
			{2, 22, nan(), 3, 6, 7},
		},
	)
	require.NoError(t, err)
	groups := matrix.GroupAssignment{
		{Name: "A", Columns: []string{"A1", "A2", "A3"}},
		{Name: "B", Columns: []string{"B1", "B2", "B3"}},
	}
	return m, groups
}

func TestImputeService_Run(t *testing.T) {
	m, groups := testFixture(t)
	service := NewImputeService(rng.NewAdapter(), nil)

	result, err := service.Run(context.Background(), m, groups, testOptions())
	require.NoError(t, err)
	table := result.Table

	colIdx := make(map[string]int)
	for i, c := range table.SampleColumns {
		colIdx[c] = i
	}

	// Classes per group.
	assert.Equal(t, []impute.MVClass{
		impute.ClassMNAR, impute.ClassMNAR, impute.ClassMCAR, impute.ClassMCAR, impute.ClassMAR,
	}, table.GroupLabels[0])
	for _, c := range table.GroupLabels[1] {
		assert.Equal(t, impute.ClassNM, c)
	}

	// Confidence scores per group.
	assert.Equal(t, []float64{0.33, 0.67, 1, 0.67, 0}, table.GroupScores[0])
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, table.GroupScores[1])

	// P1 scored below min_cs: its missing cell must remain missing.
	assert.True(t, matrix.IsMissing(table.Values[0][colIdx["A3"]]))

	// P2 cleared the threshold: both fills inside [d_min, d_min+std] = [2, 3].
	for _, c := range []string{"A1", "A2"} {
		v := table.Values[1][colIdx[c]]
		require.False(t, matrix.IsMissing(v))
		assert.GreaterOrEqual(t, v, 2.0)
		assert.LessOrEqual(t, v, 3.0)
	}

	// P4's missing cell is estimated from its only MCAR neighbor P3.
	assert.Equal(t, 12.0, table.Values[3][colIdx["A2"]])

	// P5 is MAR: untouched regardless of threshold.
	assert.True(t, matrix.IsMissing(table.Values[4][colIdx["A3"]]))

	// P3 was fully observed: numerically unchanged.
	assert.Equal(t, []float64{10, 12, 14}, table.Values[2][:3])

	// Aggregates (population std across the two group scores).
	assert.Equal(t, 0.5, table.CSMean[4])
	assert.Equal(t, 0.5, table.CSStd[4])
	assert.Equal(t, 1.0, table.CSMean[2])
	assert.Equal(t, 0.0, table.CSStd[2])
	assert.InDelta(t, 0.67, table.CSMean[0], 0.011)

	// Output column contract.
	assert.Equal(t, []string{
		"A1", "A2", "A3", "B1", "B2", "B3",
		"CS_MEAN", "CS_STD", "CS_A", "CS_B", "NaN_A", "NaN_B",
	}, table.Header())

	// Manifest counters: P2 contributed 2 cells, P4 one.
	assert.Equal(t, 3, result.Manifest.ImputedCells)
	assert.NotEmpty(t, result.Manifest.RunID)
	assert.Equal(t, int64(7), result.Manifest.Seed)
	assert.Equal(t, 4.0, result.Manifest.Limits.UpMNAR)
}

func TestImputeService_InputNeverMutated(t *testing.T) {
	m, groups := testFixture(t)
	service := NewImputeService(rng.NewAdapter(), nil)

	_, err := service.Run(context.Background(), m, groups, testOptions())
	require.NoError(t, err)

	// The original matrix keeps its missing markers.
	assert.True(t, matrix.IsMissing(m.At(1, 0)))
	assert.True(t, matrix.IsMissing(m.At(1, 1)))
	assert.Equal(t, 2.0, m.At(0, 0))
}

func TestImputeService_SeededRunsIdentical(t *testing.T) {
	m, groups := testFixture(t)
	service := NewImputeService(rng.NewAdapter(), nil)

	a, err := service.Run(context.Background(), m, groups, testOptions())
	require.NoError(t, err)
	b, err := service.Run(context.Background(), m, groups, testOptions())
	require.NoError(t, err)

	// Run IDs differ, but the seeded fills must not.
	assert.NotEqual(t, a.Manifest.RunID, b.Manifest.RunID)
	for r := range a.Table.Values {
		for c := range a.Table.Values[r] {
			va, vb := a.Table.Values[r][c], b.Table.Values[r][c]
			if matrix.IsMissing(va) {
				assert.True(t, matrix.IsMissing(vb))
				continue
			}
			assert.Equal(t, va, vb, "cell (%d,%d)", r, c)
		}
	}
}

func TestImputeService_IdempotentOnCompleteTable(t *testing.T) {
	m, err := matrix.New(
		[]string{"P1", "P2"},
		[]string{"A1", "A2", "B1", "B2"},
		[][]float64{
			{2, 12, 3, 13},
			{5, 22, 4, 20},
		},
	)
	require.NoError(t, err)
	groups := matrix.GroupAssignment{
		{Name: "A", Columns: []string{"A1", "A2"}},
		{Name: "B", Columns: []string{"B1", "B2"}},
	}
	service := NewImputeService(rng.NewAdapter(), nil)

	first, err := service.Run(context.Background(), m, groups, testOptions())
	require.NoError(t, err)

	// Feed the imputed values back through; with no missing cells nothing
	// may change.
	again, err := matrix.New(first.Table.FeatureIDs, first.Table.SampleColumns, first.Table.Values)
	require.NoError(t, err)
	second, err := service.Run(context.Background(), again, groups, testOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Table.Values, second.Table.Values)
	assert.Equal(t, first.Table.GroupLabels, second.Table.GroupLabels)
	assert.Equal(t, first.Table.GroupScores, second.Table.GroupScores)
	assert.Equal(t, 0, second.Manifest.ImputedCells)
}

func TestImputeService_RejectsBadInputsUpFront(t *testing.T) {
	m, groups := testFixture(t)
	service := NewImputeService(rng.NewAdapter(), nil)

	bad := testOptions()
	bad.MinCS = 1.5
	_, err := service.Run(context.Background(), m, groups, bad)
	assert.True(t, core.IsConfigurationError(err))

	overlap := matrix.GroupAssignment{
		{Name: "A", Columns: []string{"A1", "A2"}},
		{Name: "B", Columns: []string{"A2", "B1"}},
	}
	_, err = service.Run(context.Background(), m, overlap, testOptions())
	assert.True(t, core.IsShapeMismatchError(err))

	empty, err := matrix.New([]string{"P1"}, []string{"A1"}, [][]float64{{nan()}})
	require.NoError(t, err)
	_, err = service.Run(context.Background(), empty,
		matrix.GroupAssignment{{Name: "A", Columns: []string{"A1"}}}, testOptions())
	assert.ErrorIs(t, err, core.ErrAllMissing)
}
