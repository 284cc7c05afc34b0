package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goimpute/domain/matrix"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataReader_ReadCSV(t *testing.T) {
	path := writeTempCSV(t,
		"Protein IDs,Gene,log2 LFQ A1,log2 LFQ A2,log2 LFQ B1\n"+
			"P1,GENE1,2.5,,3.0\n"+
			"P2,GENE2,nan,4.25,bad\n")

	r := NewDataReader(path, "Protein IDs", "log2 LFQ")
	m, err := r.ReadMatrix(context.Background())
	require.NoError(t, err)

	// Only the ID column and intensity-tagged columns survive.
	assert.Equal(t, []string{"log2 LFQ A1", "log2 LFQ A2", "log2 LFQ B1"}, m.Columns)
	assert.Equal(t, []string{"P1", "P2"}, m.FeatureIDs)

	assert.Equal(t, 2.5, m.At(0, 0))
	assert.True(t, matrix.IsMissing(m.At(0, 1)), "empty cell")
	assert.Equal(t, 3.0, m.At(0, 2))
	assert.True(t, matrix.IsMissing(m.At(1, 0)), "nan literal")
	assert.Equal(t, 4.25, m.At(1, 1))
	assert.True(t, matrix.IsMissing(m.At(1, 2)), "unparseable cell")
}

func TestDataReader_Errors(t *testing.T) {
	r := NewDataReader(filepath.Join(t.TempDir(), "missing.csv"), "Protein IDs", "log2 LFQ")
	_, err := r.ReadMatrix(context.Background())
	assert.ErrorContains(t, err, "not found")

	path := writeTempCSV(t, "Other,log2 LFQ A1\nP1,2.5\n")
	_, err = NewDataReader(path, "Protein IDs", "log2 LFQ").ReadMatrix(context.Background())
	assert.ErrorContains(t, err, "ID column")

	path = writeTempCSV(t, "Protein IDs,Gene\nP1,GENE1\n")
	_, err = NewDataReader(path, "Protein IDs", "log2 LFQ").ReadMatrix(context.Background())
	assert.ErrorContains(t, err, "no columns")

	path = writeTempCSV(t, "Protein IDs,log2 LFQ A1\n")
	_, err = NewDataReader(path, "Protein IDs", "log2 LFQ").ReadMatrix(context.Background())
	assert.ErrorContains(t, err, "data row")
}

func TestMatchGroups(t *testing.T) {
	columns := []string{
		"log2 LFQ WT_01", "log2 LFQ WT_02",
		"log2 LFQ KO_01", "log2 LFQ KO_02",
	}

	groups, err := MatchGroups(columns, "log2 LFQ", []string{"WT", "KO"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "WT", groups[0].Name)
	assert.Equal(t, []string{"log2 LFQ WT_01", "log2 LFQ WT_02"}, groups[0].Columns)
	assert.Equal(t, []string{"log2 LFQ KO_01", "log2 LFQ KO_02"}, groups[1].Columns)
}

func TestMatchGroups_FirstNameWins(t *testing.T) {
	// "KO" is a substring of "KO2"; listing KO first claims both columns.
	columns := []string{"log2 LFQ KO_01", "log2 LFQ KO2_01"}
	groups, err := MatchGroups(columns, "log2 LFQ", []string{"KO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"log2 LFQ KO_01", "log2 LFQ KO2_01"}, groups[0].Columns)
}

func TestMatchGroups_UnmatchedGroupErrors(t *testing.T) {
	columns := []string{"log2 LFQ WT_01"}
	_, err := MatchGroups(columns, "log2 LFQ", []string{"WT", "KO"})
	assert.ErrorContains(t, err, `"KO"`)
}
