package excel

import (
	"fmt"
	"strings"

	"goimpute/domain/matrix"
)

// MatchGroups derives a group assignment from intensity column names by
// substring matching: the intensity tag is stripped from each column name
// and the first group name found in the remainder claims the column.
// Group order follows groupNames; column order within a group follows the
// matrix. Columns matching no group are ignored.
func MatchGroups(columns []string, intensityTag string, groupNames []string) (matrix.GroupAssignment, error) {
	byGroup := make(map[string][]string, len(groupNames))
	for _, col := range columns {
		remainder := strings.ReplaceAll(col, intensityTag, "")
		for _, g := range groupNames {
			if strings.Contains(remainder, g) {
				byGroup[g] = append(byGroup[g], col)
				break
			}
		}
	}

	assignment := make(matrix.GroupAssignment, 0, len(groupNames))
	for _, g := range groupNames {
		cols, ok := byGroup[g]
		if !ok {
			return nil, fmt.Errorf("group %q matched no intensity columns", g)
		}
		assignment = append(assignment, matrix.Group{Name: g, Columns: cols})
	}
	return assignment, nil
}
