package matrix

import (
	"fmt"
	"math"

	"goimpute/domain/core"
)

// Matrix is an intensity table: feature rows by sample columns.
// Missing values are represented as NaN. A Matrix handed to the imputation
// pipeline is treated as immutable; every stage works on copies.
type Matrix struct {
	FeatureIDs []string    `json:"feature_ids"`
	Columns    []string    `json:"columns"`
	Values     [][]float64 `json:"values"`
}

// New builds a matrix and checks that every row matches the column count.
func New(featureIDs, columns []string, values [][]float64) (*Matrix, error) {
	if len(values) != len(featureIDs) {
		return nil, fmt.Errorf("%w: %d feature IDs for %d rows",
			core.ErrShapeMismatch, len(featureIDs), len(values))
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns",
				core.ErrShapeMismatch, i, len(row), len(columns))
		}
	}
	return &Matrix{FeatureIDs: featureIDs, Columns: columns, Values: values}, nil
}

// Rows returns the number of feature rows.
func (m *Matrix) Rows() int { return len(m.Values) }

// Cols returns the number of sample columns.
func (m *Matrix) Cols() int { return len(m.Columns) }

// At returns the cell value at (row, col).
func (m *Matrix) At(row, col int) float64 { return m.Values[row][col] }

// Set overwrites the cell value at (row, col).
func (m *Matrix) Set(row, col int, v float64) { m.Values[row][col] = v }

// Row returns the values of one feature row (no copy).
func (m *Matrix) Row(i int) []float64 { return m.Values[i] }

// Clone returns a deep copy. Imputers mutate clones, never inputs.
func (m *Matrix) Clone() *Matrix {
	values := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]float64, len(row))
		copy(values[i], row)
	}
	ids := make([]string, len(m.FeatureIDs))
	copy(ids, m.FeatureIDs)
	cols := make([]string, len(m.Columns))
	copy(cols, m.Columns)
	return &Matrix{FeatureIDs: ids, Columns: cols, Values: values}
}

// ColumnIndex maps column names to their positions.
func (m *Matrix) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(m.Columns))
	for i, c := range m.Columns {
		idx[c] = i
	}
	return idx
}

// Select returns a copy holding only the named columns, in the given order.
func (m *Matrix) Select(columns []string) (*Matrix, error) {
	idx := m.ColumnIndex()
	positions := make([]int, len(columns))
	for i, c := range columns {
		p, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrColumnUnknown, c)
		}
		positions[i] = p
	}
	values := make([][]float64, len(m.Values))
	for r, row := range m.Values {
		sub := make([]float64, len(positions))
		for i, p := range positions {
			sub[i] = row[p]
		}
		values[r] = sub
	}
	ids := make([]string, len(m.FeatureIDs))
	copy(ids, m.FeatureIDs)
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Matrix{FeatureIDs: ids, Columns: cols, Values: values}, nil
}

// SelectRows returns a copy holding only the given row indices, in order.
func (m *Matrix) SelectRows(rows []int) *Matrix {
	ids := make([]string, len(rows))
	values := make([][]float64, len(rows))
	for i, r := range rows {
		ids[i] = m.FeatureIDs[r]
		values[i] = make([]float64, len(m.Values[r]))
		copy(values[i], m.Values[r])
	}
	cols := make([]string, len(m.Columns))
	copy(cols, m.Columns)
	return &Matrix{FeatureIDs: ids, Columns: cols, Values: values}
}

// MissingCount returns the number of NaN cells in the matrix.
func (m *Matrix) MissingCount() int {
	n := 0
	for _, row := range m.Values {
		for _, v := range row {
			if IsMissing(v) {
				n++
			}
		}
	}
	return n
}

// IsMissing reports whether a cell value is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Missing is the canonical missing marker.
func Missing() float64 { return math.NaN() }
