package dataset

import (
	"fmt"
	"math"
	"sort"

	"gospc/domain/core"
)

// MeasurementCube holds a Gage R&R study indexed [operator][part][repeat].
type MeasurementCube [][][]float64

// Shape returns the operator, part and repeat counts of the first row.
// Call Validate before trusting it.
func (c MeasurementCube) Shape() (operators, parts, repeats int) {
	operators = len(c)
	if operators == 0 {
		return 0, 0, 0
	}
	parts = len(c[0])
	if parts == 0 {
		return operators, 0, 0
	}
	return operators, parts, len(c[0][0])
}

// Validate checks the cube is non-empty, rectangular and finite
func (c MeasurementCube) Validate() error {
	operators, parts, repeats := c.Shape()
	if operators == 0 || parts == 0 || repeats == 0 {
		return fmt.Errorf("%w: shape %dx%dx%d", core.ErrNonRectangular, operators, parts, repeats)
	}
	for o := range c {
		if len(c[o]) != parts {
			return fmt.Errorf("%w: operator %d has %d parts, expected %d", core.ErrNonRectangular, o, len(c[o]), parts)
		}
		for p := range c[o] {
			if len(c[o][p]) != repeats {
				return fmt.Errorf("%w: operator %d part %d has %d repeats, expected %d",
					core.ErrNonRectangular, o, p, len(c[o][p]), repeats)
			}
			for r, v := range c[o][p] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return core.NewValidationError("cube", fmt.Sprintf("non-finite value at [%d][%d][%d]", o, p, r))
				}
			}
		}
	}
	return nil
}

// CubeRecord is one long-format Gage measurement row
type CubeRecord struct {
	Operator string
	Part     string
	Value    float64
}

// CubeLayout records the labels behind each cube axis
type CubeLayout struct {
	Operators []string
	Parts     []string
	Repeats   int
}

// BuildCube arranges long-format records into a cube. Repeats are taken in
// record order within each (operator, part) cell; cells must all hold the same
// number of repeats.
func BuildCube(records []CubeRecord) (MeasurementCube, CubeLayout, error) {
	if len(records) == 0 {
		return nil, CubeLayout{}, core.ErrEmptySample
	}

	cells := make(map[[2]string][]float64)
	opSet := make(map[string]struct{})
	partSet := make(map[string]struct{})
	for _, rec := range records {
		cells[[2]string{rec.Operator, rec.Part}] = append(cells[[2]string{rec.Operator, rec.Part}], rec.Value)
		opSet[rec.Operator] = struct{}{}
		partSet[rec.Part] = struct{}{}
	}

	layout := CubeLayout{Operators: sortedKeys(opSet), Parts: sortedKeys(partSet)}
	cube := make(MeasurementCube, len(layout.Operators))
	for o, op := range layout.Operators {
		cube[o] = make([][]float64, len(layout.Parts))
		for p, part := range layout.Parts {
			values, ok := cells[[2]string{op, part}]
			if !ok {
				return nil, layout, fmt.Errorf("%w: operator %q never measured part %q", core.ErrNonRectangular, op, part)
			}
			cube[o][p] = values
		}
	}
	if err := cube.Validate(); err != nil {
		return nil, layout, err
	}
	_, _, layout.Repeats = cube.Shape()
	return cube, layout, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
