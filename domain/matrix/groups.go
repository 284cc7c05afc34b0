package matrix

import (
	"fmt"

	"goimpute/domain/core"
)

// Group names an experimental group and its ordered sample columns.
type Group struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// GroupAssignment is an ordered list of experimental groups. Group order
// determines output column order after the per-group merge.
type GroupAssignment []Group

// AllColumns returns every assigned column in group order.
func (ga GroupAssignment) AllColumns() []string {
	var cols []string
	for _, g := range ga {
		cols = append(cols, g.Columns...)
	}
	return cols
}

// Validate rejects assignments that reference unknown matrix columns,
// assign a column to more than one group, or contain an empty group.
// Disjointness is a correctness invariant of the classification stage, so
// violations fail the whole run rather than being skipped.
func (ga GroupAssignment) Validate(m *Matrix) error {
	idx := m.ColumnIndex()
	seen := make(map[string]string) // column -> group that claimed it
	for _, g := range ga {
		if len(g.Columns) == 0 {
			return fmt.Errorf("%w: %q", core.ErrGroupEmpty, g.Name)
		}
		for _, c := range g.Columns {
			if _, ok := idx[c]; !ok {
				return core.NewColumnUnknownError(g.Name, c)
			}
			if owner, dup := seen[c]; dup {
				return core.NewColumnOverlapError(c, owner, g.Name)
			}
			seen[c] = g.Name
		}
	}
	return nil
}
