package impute

import (
	"encoding/json"
	"fmt"
	"strconv"

	"goimpute/domain/matrix"
)

// AnnotatedTable is the merged output of one run: imputed intensities in
// group column order, followed by aggregate and per-group annotations.
// Feature row order matches the input matrix.
type AnnotatedTable struct {
	FeatureIDs    []string    `json:"feature_ids"`
	SampleColumns []string    `json:"sample_columns"`
	Values        [][]float64 `json:"values"`

	CSMean []float64 `json:"cs_mean"`
	CSStd  []float64 `json:"cs_std"`

	GroupNames  []string    `json:"group_names"`
	GroupScores [][]float64 `json:"group_scores"` // [group][row]
	GroupLabels [][]MVClass `json:"group_labels"` // [group][row]
}

// Header returns the output column names in their mandated order: sample
// columns, CS_MEAN, CS_STD, one CS_<group> per group, one NaN_<group> per
// group.
func (t *AnnotatedTable) Header() []string {
	header := make([]string, 0, len(t.SampleColumns)+2+2*len(t.GroupNames))
	header = append(header, t.SampleColumns...)
	header = append(header, "CS_MEAN", "CS_STD")
	for _, g := range t.GroupNames {
		header = append(header, fmt.Sprintf("CS_%s", g))
	}
	for _, g := range t.GroupNames {
		header = append(header, fmt.Sprintf("NaN_%s", g))
	}
	return header
}

// Records renders the table as string records for CSV or API output. The
// first column is the feature ID; remaining columns follow Header().
// Missing cells render as "NaN".
func (t *AnnotatedTable) Records(idColumn string) [][]string {
	records := make([][]string, 0, len(t.FeatureIDs)+1)
	header := append([]string{idColumn}, t.Header()...)
	records = append(records, header)

	for r, id := range t.FeatureIDs {
		rec := make([]string, 0, len(header))
		rec = append(rec, id)
		for _, v := range t.Values[r] {
			rec = append(rec, formatCell(v))
		}
		rec = append(rec, formatCell(t.CSMean[r]), formatCell(t.CSStd[r]))
		for g := range t.GroupNames {
			rec = append(rec, formatCell(t.GroupScores[g][r]))
		}
		for g := range t.GroupNames {
			rec = append(rec, string(t.GroupLabels[g][r]))
		}
		records = append(records, rec)
	}
	return records
}

// annotatedTableJSON mirrors AnnotatedTable with nullable cells; JSON has
// no NaN literal, so missing cells travel as null.
type annotatedTableJSON struct {
	FeatureIDs    []string     `json:"feature_ids"`
	SampleColumns []string     `json:"sample_columns"`
	Values        [][]*float64 `json:"values"`
	CSMean        []float64    `json:"cs_mean"`
	CSStd         []float64    `json:"cs_std"`
	GroupNames    []string     `json:"group_names"`
	GroupScores   [][]float64  `json:"group_scores"`
	GroupLabels   [][]MVClass  `json:"group_labels"`
}

func (t *AnnotatedTable) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(t.Values))
	for r, row := range t.Values {
		cells := make([]*float64, len(row))
		for c, v := range row {
			if !matrix.IsMissing(v) {
				cell := v
				cells[c] = &cell
			}
		}
		values[r] = cells
	}
	return json.Marshal(annotatedTableJSON{
		FeatureIDs:    t.FeatureIDs,
		SampleColumns: t.SampleColumns,
		Values:        values,
		CSMean:        t.CSMean,
		CSStd:         t.CSStd,
		GroupNames:    t.GroupNames,
		GroupScores:   t.GroupScores,
		GroupLabels:   t.GroupLabels,
	})
}

func (t *AnnotatedTable) UnmarshalJSON(data []byte) error {
	var raw annotatedTableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make([][]float64, len(raw.Values))
	for r, row := range raw.Values {
		cells := make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				cells[c] = matrix.Missing()
			} else {
				cells[c] = *v
			}
		}
		values[r] = cells
	}
	t.FeatureIDs = raw.FeatureIDs
	t.SampleColumns = raw.SampleColumns
	t.Values = values
	t.CSMean = raw.CSMean
	t.CSStd = raw.CSStd
	t.GroupNames = raw.GroupNames
	t.GroupScores = raw.GroupScores
	t.GroupLabels = raw.GroupLabels
	return nil
}

func formatCell(v float64) string {
	if matrix.IsMissing(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Result bundles the annotated table with its run manifest.
type Result struct {
	Table    *AnnotatedTable `json:"table"`
	Manifest *RunManifest    `json:"manifest"`
}
