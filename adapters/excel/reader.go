package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goimpute/domain/matrix"
	"goimpute/ports"
)

var _ ports.MatrixReader = (*DataReader)(nil)

// DataReader loads intensity tables from Excel or CSV files.
type DataReader struct {
	filePath     string
	fileType     string // "xlsx" or "csv"
	idColumn     string
	intensityTag string
}

// NewDataReader creates a reader for the given file. idColumn names the
// feature-ID column; intensityTag is the substring marking intensity
// columns (all other columns are ignored).
func NewDataReader(filePath, idColumn, intensityTag string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath:     filePath,
		fileType:     fileType,
		idColumn:     idColumn,
		intensityTag: intensityTag,
	}
}

// ReadMatrix reads the file into an intensity matrix. Empty and
// non-numeric intensity cells become missing markers.
func (r *DataReader) ReadMatrix(ctx context.Context) (*matrix.Matrix, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("input file must have a header row and at least one data row")
	}

	return r.buildMatrix(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// buildMatrix extracts the ID column and every intensity column.
func (r *DataReader) buildMatrix(rows [][]string) (*matrix.Matrix, error) {
	header := rows[0]

	idIdx := -1
	var colNames []string
	var colIdx []int
	for i, h := range header {
		switch {
		case h == r.idColumn:
			idIdx = i
		case strings.Contains(h, r.intensityTag):
			colNames = append(colNames, h)
			colIdx = append(colIdx, i)
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("ID column %q not found in header", r.idColumn)
	}
	if len(colNames) == 0 {
		return nil, fmt.Errorf("no columns containing %q found in header", r.intensityTag)
	}

	ids := make([]string, 0, len(rows)-1)
	values := make([][]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		ids = append(ids, cell(row, idIdx))
		vals := make([]float64, len(colIdx))
		for j, c := range colIdx {
			vals[j] = parseIntensity(cell(row, c))
		}
		values = append(values, vals)
	}

	return matrix.New(ids, colNames, values)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseIntensity(s string) float64 {
	if s == "" || strings.EqualFold(s, "nan") {
		return matrix.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return matrix.Missing()
	}
	return v
}
