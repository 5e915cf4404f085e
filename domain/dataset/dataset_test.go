package dataset

import (
	"errors"
	"math"
	"testing"

	"gospc/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AddColumnEnforcesRectangularShape(t *testing.T) {
	table := NewTable("unit")
	require.NoError(t, table.AddLabelColumn("eventName", []string{"click", "view", "click"}))
	require.NoError(t, table.AddColumn("eventCount", []float64{1, 2, 3}))

	err := table.AddColumn("sessions", []float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrColumnLength))

	err = table.AddColumn("eventCount", []float64{4, 5, 6})
	assert.True(t, core.IsInputError(err), "duplicate column should be an input error")

	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, 2, table.ColumnCount())
	assert.Equal(t, []string{"eventCount"}, table.NumericColumns())
	assert.Equal(t, []string{"eventName"}, table.LabelColumns())
	assert.NoError(t, table.Validate())
}

func TestTable_GetColumnDataReturnsCopy(t *testing.T) {
	table := NewTable("unit")
	require.NoError(t, table.AddColumn("sessions", []float64{10, 20}))

	col, ok := table.GetColumnData("sessions")
	require.True(t, ok)
	col[0] = 999

	again, _ := table.GetColumnData("sessions")
	assert.Equal(t, 10.0, again[0])

	_, ok = table.GetColumnData("missing")
	assert.False(t, ok)
}

func TestTable_GroupByDropsMissing(t *testing.T) {
	table := NewTable("unit")
	require.NoError(t, table.AddLabelColumn("eventName", []string{"a", "b", "a", "", "b", "c"}))
	require.NoError(t, table.AddColumn("eventCount", []float64{1, 2, math.NaN(), 4, 5, 6}))

	grouped, err := table.GroupBy("eventCount", "eventName")
	require.NoError(t, err)

	assert.Equal(t, "eventCount", grouped.Metric)
	assert.Equal(t, []string{"a", "b", "c"}, grouped.Labels())
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1}, grouped.Sizes())
	assert.Equal(t, 1, grouped.MinGroupSize())
	assert.Equal(t, []float64{1, 2, 5, 6}, grouped.Pooled())
	assert.Equal(t, []string{"a", "b", "c"}, table.Distinct("eventName"))

	_, err = table.GroupBy("nope", "eventName")
	assert.True(t, core.IsNotFoundError(err))

	_, err = table.GroupBy("eventCount", "nope")
	assert.True(t, core.IsInputError(err))
}

func TestEmptyTableFailsValidation(t *testing.T) {
	assert.ErrorIs(t, NewTable("empty").Validate(), core.ErrEmptySample)
}

func TestMeasurementCube_Validate(t *testing.T) {
	good := MeasurementCube{
		{{1, 2}, {3, 4}, {5, 6}},
		{{1, 2}, {3, 4}, {5, 6}},
	}
	require.NoError(t, good.Validate())
	o, p, r := good.Shape()
	assert.Equal(t, [3]int{2, 3, 2}, [3]int{o, p, r})

	cases := map[string]MeasurementCube{
		"empty":          {},
		"no parts":       {{}},
		"ragged parts":   {{{1, 2}, {3, 4}}, {{1, 2}}},
		"ragged repeats": {{{1, 2}, {3}}, {{1, 2}, {3, 4}}},
	}
	for name, cube := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, cube.Validate(), core.ErrNonRectangular)
		})
	}

	nan := MeasurementCube{{{1, math.NaN()}}}
	assert.True(t, core.IsInputError(nan.Validate()))
}

func TestBuildCube(t *testing.T) {
	records := []CubeRecord{
		{Operator: "B", Part: "p1", Value: 2.1},
		{Operator: "A", Part: "p1", Value: 1.1},
		{Operator: "A", Part: "p1", Value: 1.2},
		{Operator: "A", Part: "p2", Value: 3.1},
		{Operator: "A", Part: "p2", Value: 3.2},
		{Operator: "B", Part: "p1", Value: 2.2},
		{Operator: "B", Part: "p2", Value: 4.1},
		{Operator: "B", Part: "p2", Value: 4.2},
	}

	cube, layout, err := BuildCube(records)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, layout.Operators)
	assert.Equal(t, []string{"p1", "p2"}, layout.Parts)
	assert.Equal(t, 2, layout.Repeats)
	assert.Equal(t, []float64{1.1, 1.2}, cube[0][0])
	assert.Equal(t, []float64{2.1, 2.2}, cube[1][0])

	_, _, err = BuildCube(records[:7])
	assert.ErrorIs(t, err, core.ErrNonRectangular)

	_, _, err = BuildCube(records[:3])
	assert.ErrorIs(t, err, core.ErrNonRectangular, "cells hold different repeat counts")
}
