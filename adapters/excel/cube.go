package excel

import (
	"fmt"
	"math"
	"strings"

	"gospc/domain/core"
	"gospc/domain/dataset"
)

// Column names accepted for long-format Gage studies
var (
	operatorHeaders = []string{"operator", "appraiser"}
	partHeaders     = []string{"part", "sample"}
	valueHeaders    = []string{"value", "measurement", "reading"}
)

// ToCubeRecords reads long-format Gage rows (operator, part, optional repeat, value).
// Repeats are kept in file order within each cell.
func ToCubeRecords(data *ExcelData) ([]dataset.CubeRecord, error) {
	if data == nil || len(data.Rows) == 0 {
		return nil, core.ErrEmptySample
	}

	opCol, err := findHeader(data.Headers, operatorHeaders)
	if err != nil {
		return nil, err
	}
	partCol, err := findHeader(data.Headers, partHeaders)
	if err != nil {
		return nil, err
	}
	valueCol, err := findHeader(data.Headers, valueHeaders)
	if err != nil {
		return nil, err
	}

	records := make([]dataset.CubeRecord, 0, len(data.Rows))
	for i, row := range data.Rows {
		v, ok := ParseNumber(row[valueCol])
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: row %d has non-numeric measurement %q", core.ErrInvalidInput, i+2, row[valueCol])
		}
		if row[opCol] == "" || row[partCol] == "" {
			return nil, fmt.Errorf("%w: row %d is missing operator or part", core.ErrInvalidInput, i+2)
		}
		records = append(records, dataset.CubeRecord{Operator: row[opCol], Part: row[partCol], Value: v})
	}
	return records, nil
}

// LoadCube reads a Gage study file into a measurement cube
func LoadCube(path string) (dataset.MeasurementCube, dataset.CubeLayout, error) {
	data, err := NewDataReader(path).ReadData()
	if err != nil {
		return nil, dataset.CubeLayout{}, err
	}
	records, err := ToCubeRecords(data)
	if err != nil {
		return nil, dataset.CubeLayout{}, err
	}
	return dataset.BuildCube(records)
}

func findHeader(headers []string, candidates []string) (string, error) {
	for _, want := range candidates {
		for _, h := range headers {
			if strings.EqualFold(h, want) {
				return h, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no %s column in %v", core.ErrInvalidInput, candidates[0], headers)
}
