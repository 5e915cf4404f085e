package dataset

import (
	"fmt"
	"math"
	"sort"

	"gospc/domain/core"
)

// Table is the canonical rectangular dataset handed to the analysis engines.
// Numeric columns use NaN as the missing marker; categorical columns use "".
type Table struct {
	numeric     map[string][]float64
	categorical map[string][]string
	order       []string
	rows        int

	// Source names where the table came from (file path, export name).
	Source string
	// Period is the reporting window, when the source declares one.
	Period core.DateRange
}

// NewTable creates an empty table
func NewTable(source string) *Table {
	return &Table{
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
		rows:        -1,
		Source:      source,
	}
}

// AddColumn adds a numeric column. All columns must share one length.
func (t *Table) AddColumn(name string, values []float64) error {
	if err := t.claim(name, len(values)); err != nil {
		return err
	}
	t.numeric[name] = append([]float64(nil), values...)
	return nil
}

// AddLabelColumn adds a categorical column such as eventName.
func (t *Table) AddLabelColumn(name string, values []string) error {
	if err := t.claim(name, len(values)); err != nil {
		return err
	}
	t.categorical[name] = append([]string(nil), values...)
	return nil
}

func (t *Table) claim(name string, n int) error {
	if name == "" {
		return core.NewValidationError("column", "name cannot be empty")
	}
	if t.HasColumn(name) {
		return core.NewValidationError("column", fmt.Sprintf("duplicate column %q", name))
	}
	if t.rows >= 0 && n != t.rows {
		return fmt.Errorf("%w: column %q has %d rows, expected %d", core.ErrColumnLength, name, n, t.rows)
	}
	t.rows = n
	t.order = append(t.order, name)
	return nil
}

// HasColumn reports whether a numeric or categorical column exists
func (t *Table) HasColumn(name string) bool {
	_, num := t.numeric[name]
	_, cat := t.categorical[name]
	return num || cat
}

// GetColumnData returns a copy of a numeric column
func (t *Table) GetColumnData(name string) ([]float64, bool) {
	values, ok := t.numeric[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), values...), true
}

// GetLabels returns a copy of a categorical column
func (t *Table) GetLabels(name string) ([]string, bool) {
	values, ok := t.categorical[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// NumericColumns returns numeric column names in ingestion order
func (t *Table) NumericColumns() []string {
	names := make([]string, 0, len(t.numeric))
	for _, name := range t.order {
		if _, ok := t.numeric[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// LabelColumns returns categorical column names in ingestion order
func (t *Table) LabelColumns() []string {
	names := make([]string, 0, len(t.categorical))
	for _, name := range t.order {
		if _, ok := t.categorical[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if t.rows < 0 {
		return 0
	}
	return t.rows
}

// ColumnCount returns the number of columns of both kinds
func (t *Table) ColumnCount() int {
	return len(t.order)
}

// Validate ensures the table is non-empty and internally consistent
func (t *Table) Validate() error {
	if t.RowCount() == 0 {
		return core.ErrEmptySample
	}
	for name, col := range t.numeric {
		if len(col) != t.rows {
			return fmt.Errorf("%w: column %q", core.ErrColumnLength, name)
		}
	}
	for name, col := range t.categorical {
		if len(col) != t.rows {
			return fmt.Errorf("%w: column %q", core.ErrColumnLength, name)
		}
	}
	return nil
}

// GroupBy splits a numeric column by a categorical column. Missing values
// and rows without a label are excluded.
func (t *Table) GroupBy(metric, groupColumn string) (GroupedSample, error) {
	values, ok := t.numeric[metric]
	if !ok {
		return GroupedSample{}, fmt.Errorf("%w: %s", core.ErrMetricNotFound, metric)
	}
	labels, ok := t.categorical[groupColumn]
	if !ok {
		return GroupedSample{}, core.NewValidationError("group_column", fmt.Sprintf("no categorical column %q", groupColumn))
	}

	groups := make(map[string][]float64)
	for i, v := range values {
		if labels[i] == "" || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		groups[labels[i]] = append(groups[labels[i]], v)
	}
	return NewGroupedSample(metric, groups), nil
}

// Fingerprint hashes the numeric content for run provenance
func (t *Table) Fingerprint() core.Hash {
	return core.ComputeColumnsHash(t.numeric)
}

// Distinct returns the sorted distinct non-empty labels of a categorical column
func (t *Table) Distinct(groupColumn string) []string {
	seen := make(map[string]struct{})
	for _, l := range t.categorical[groupColumn] {
		if l != "" {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
