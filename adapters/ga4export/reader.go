// Package ga4export reads saved GA4 Data API runReport responses into tables.
//
// Both a bare response body and an envelope of the form
// {"request": {...}, "response": {...}} are accepted. The reporting window is
// taken from request.dateRanges, or from a top-level dateRanges field.
package ga4export

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"gospc/domain/core"
	"gospc/domain/dataset"
)

// Export is a decoded runReport response
type Export struct {
	Dimensions []string
	Metrics    []string
	RowCount   int
	Period     core.DateRange
	Table      *dataset.Table
}

// ReadFile loads an export from disk
func ReadFile(path string) (*Export, error) {
	startTime := time.Now()
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GA4 export: %w", err)
	}
	export, err := Parse(body, path)
	if err != nil {
		return nil, err
	}
	log.Printf("[GA4Export] %s parsed in %.2fms (%d rows, %d metrics)",
		path, float64(time.Since(startTime).Nanoseconds())/1e6, export.RowCount, len(export.Metrics))
	return export, nil
}

// Parse decodes a runReport body. Dimensions become label columns and metrics
// numeric columns; unparseable metric values are treated as missing.
func Parse(body []byte, source string) (*Export, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: GA4 export is not valid JSON", core.ErrInvalidInput)
	}

	root := gjson.ParseBytes(body)
	response := root
	if r := root.Get("response"); r.IsObject() {
		response = r
	}

	period, err := parsePeriod(root)
	if err != nil {
		return nil, err
	}

	var dims, metrics []string
	response.Get("dimensionHeaders.#.name").ForEach(func(_, v gjson.Result) bool {
		dims = append(dims, v.String())
		return true
	})
	response.Get("metricHeaders.#.name").ForEach(func(_, v gjson.Result) bool {
		metrics = append(metrics, v.String())
		return true
	})
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: GA4 export has no metricHeaders", core.ErrInvalidInput)
	}

	rows := response.Get("rows").Array()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: GA4 export has no rows", core.ErrEmptySample)
	}

	labels := make([][]string, len(dims))
	for i := range labels {
		labels[i] = make([]string, len(rows))
	}
	values := make([][]float64, len(metrics))
	for i := range values {
		values[i] = make([]float64, len(rows))
	}

	for r, row := range rows {
		dimValues := row.Get("dimensionValues").Array()
		for d := range dims {
			if d < len(dimValues) {
				labels[d][r] = dimValues[d].Get("value").String()
			}
		}
		metricValues := row.Get("metricValues").Array()
		for m := range metrics {
			values[m][r] = math.NaN()
			if m < len(metricValues) {
				if v, err := strconv.ParseFloat(metricValues[m].Get("value").String(), 64); err == nil {
					values[m][r] = v
				}
			}
		}
	}

	table := dataset.NewTable(source)
	table.Period = period
	for d, name := range dims {
		if err := table.AddLabelColumn(name, labels[d]); err != nil {
			return nil, err
		}
	}
	for m, name := range metrics {
		if err := table.AddColumn(name, values[m]); err != nil {
			return nil, err
		}
	}

	return &Export{
		Dimensions: dims,
		Metrics:    metrics,
		RowCount:   len(rows),
		Period:     period,
		Table:      table,
	}, nil
}

func parsePeriod(root gjson.Result) (core.DateRange, error) {
	ranges := root.Get("request.dateRanges")
	if !ranges.Exists() {
		ranges = root.Get("dateRanges")
	}
	if !ranges.Exists() || len(ranges.Array()) == 0 {
		return core.DateRange{}, nil
	}
	first := ranges.Array()[0]
	return core.ParseDateRange(first.Get("startDate").String(), first.Get("endDate").String())
}
