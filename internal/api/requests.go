package api

import (
	"fmt"
	"math"
	"sort"

	"gospc/domain/dataset"
)

// TableRequest carries a column-oriented table. Numeric cells may be null
// to mark a missing value.
type TableRequest struct {
	Source  string                `json:"source"`
	Labels  map[string][]string   `json:"labels"`
	Columns map[string][]*float64 `json:"columns" binding:"required,min=1"`
}

// GageRequest carries either a cube indexed [operator][part][repeat] or
// long-format measurements
type GageRequest struct {
	Source       string               `json:"source"`
	Cube         [][][]float64        `json:"cube"`
	Measurements []MeasurementRequest `json:"measurements" binding:"omitempty,dive"`
}

// MeasurementRequest is one long-format Gage reading
type MeasurementRequest struct {
	Operator string  `json:"operator" binding:"required"`
	Part     string  `json:"part" binding:"required"`
	Value    float64 `json:"value"`
}

// ToTable builds a dataset table, label columns first, each kind in name order
func (r TableRequest) ToTable() (*dataset.Table, error) {
	source := r.Source
	if source == "" {
		source = "api"
	}
	table := dataset.NewTable(source)

	for _, name := range sortedKeys(r.Labels) {
		if err := table.AddLabelColumn(name, r.Labels[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(r.Columns) {
		cells := r.Columns[name]
		values := make([]float64, len(cells))
		for i, v := range cells {
			if v == nil {
				values[i] = math.NaN()
			} else {
				values[i] = *v
			}
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return table, table.Validate()
}

// ToCube returns the cube as given or assembled from measurements
func (r GageRequest) ToCube() (dataset.MeasurementCube, error) {
	switch {
	case len(r.Cube) > 0 && len(r.Measurements) > 0:
		return nil, fmt.Errorf("send either cube or measurements, not both")
	case len(r.Cube) > 0:
		return dataset.MeasurementCube(r.Cube), nil
	case len(r.Measurements) > 0:
		records := make([]dataset.CubeRecord, len(r.Measurements))
		for i, m := range r.Measurements {
			records[i] = dataset.CubeRecord{Operator: m.Operator, Part: m.Part, Value: m.Value}
		}
		cube, _, err := dataset.BuildCube(records)
		return cube, err
	}
	return nil, fmt.Errorf("cube or measurements is required")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
