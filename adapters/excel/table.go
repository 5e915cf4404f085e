package excel

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"gospc/domain/core"
	"gospc/domain/dataset"
)

// missingTokens are cell values read as missing rather than as text
var missingTokens = map[string]bool{
	"":          true,
	"na":        true,
	"n/a":       true,
	"nan":       true,
	"null":      true,
	"none":      true,
	"(not set)": true,
}

// ParseNumber converts a cell to float64. Missing markers become NaN with ok=true;
// thousands separators and a trailing percent sign are accepted.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if missingTokens[strings.ToLower(s)] {
		return math.NaN(), true
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToTable converts raw rows into a dataset table. A column is numeric when every
// non-missing cell parses as a number; otherwise it becomes a label column.
func ToTable(data *ExcelData, source, groupColumn string) (*dataset.Table, error) {
	if data == nil || len(data.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", core.ErrEmptySample)
	}

	table := dataset.NewTable(source)
	numericCount := 0
	for _, header := range data.Headers {
		cells := data.Column(header)

		if header != groupColumn {
			if values, ok := numericColumn(cells); ok {
				if err := table.AddColumn(header, values); err != nil {
					return nil, err
				}
				numericCount++
				continue
			}
		}

		labels := make([]string, len(cells))
		for i, c := range cells {
			if !missingTokens[strings.ToLower(c)] {
				labels[i] = c
			}
		}
		if err := table.AddLabelColumn(header, labels); err != nil {
			return nil, err
		}
	}

	if groupColumn != "" && !table.HasColumn(groupColumn) {
		log.Printf("[DataReader] group column %q not present in %s", groupColumn, source)
	}
	log.Printf("[DataReader] table built from %s: %d numeric, %d label columns, %d rows",
		source, numericCount, table.ColumnCount()-numericCount, table.RowCount())

	return table, table.Validate()
}

func numericColumn(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	present := 0
	for i, c := range cells {
		v, ok := ParseNumber(c)
		if !ok {
			return nil, false
		}
		if !math.IsNaN(v) {
			present++
		}
		values[i] = v
	}
	return values, present > 0
}

// LoadTable reads a CSV or XLSX file and converts it to a table
func LoadTable(cfg ExcelConfig) (*dataset.Table, error) {
	data, err := NewReaderFromConfig(cfg).ReadData()
	if err != nil {
		return nil, err
	}
	return ToTable(data, cfg.FilePath, cfg.GroupColumn)
}
