package capability

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
)

func referenceCatalog() quality.Catalog {
	return quality.Catalog{"sessions": {USL: 600, LSL: 200, Target: 400}}
}

func TestCompute_ReferenceSample(t *testing.T) {
	result, err := Compute("sessions", []float64{480, 500, 520, 510, 495}, referenceCatalog())
	require.NoError(t, err)
	require.NotNil(t, result)

	// std with ddof = 1: sqrt(920 / 4)
	std := math.Sqrt(230)
	assert.InDelta(t, 501.0, result.Mean, 1e-9)
	assert.InDelta(t, std, result.Std, 1e-9)
	assert.InDelta(t, 4.3959, result.Cp, 5e-5)
	assert.InDelta(t, 2.1760, result.Cpk, 5e-5)
	assert.InDelta(t, 0.6527, result.Cpm, 5e-5)
	assert.InDelta(t, (600.0-200.0)/(6*std), result.Cp, 1e-12)
	assert.Equal(t, 5, result.N)
	assert.Equal(t, 600.0, result.USL)
	assert.Equal(t, 400.0, result.Target)
}

func TestCompute_CpkIsMinOfCpuCpl(t *testing.T) {
	samples := [][]float64{
		{480, 500, 520, 510, 495},
		{210, 230, 250, 205, 240},
		{590, 580, 560, 599, 575},
		{399, 401, 400.5, 399.5},
	}
	for _, sample := range samples {
		result, err := Compute("sessions", sample, referenceCatalog())
		require.NoError(t, err)
		assert.Equal(t, math.Min(result.Cpu, result.Cpl), result.Cpk)
		assert.LessOrEqual(t, result.Cpk, result.Cp+1e-12)
		assert.LessOrEqual(t, result.Cpm, result.Cp+1e-12)
	}
}

func TestCompute_CenteredSymmetricSample(t *testing.T) {
	result, err := Compute("sessions", []float64{390, 395, 400, 405, 410}, referenceCatalog())
	require.NoError(t, err)
	assert.InDelta(t, result.Cp, result.Cpu, 1e-9)
	assert.InDelta(t, result.Cp, result.Cpl, 1e-9)
	assert.InDelta(t, result.Cp, result.Cpm, 1e-9)
}

func TestCompute_Undefined(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		sample []float64
		cause  error
	}{
		{"zero std", "sessions", []float64{500, 500, 500}, core.ErrZeroVariance},
		{"constant with rounding residue", "sessions", []float64{0.1, 0.1, 0.1}, core.ErrZeroVariance},
		{"single observation", "sessions", []float64{500}, core.ErrTooFewObservations},
		{"only zeros and NaN", "sessions", []float64{0, math.NaN(), 0, 450}, core.ErrTooFewObservations},
		{"no specification", "pageTitle", []float64{1, 2, 3}, core.ErrNoSpecification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				result, err := Compute(tt.metric, tt.sample, referenceCatalog())
				assert.Nil(t, result)
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.cause))
				assert.True(t, core.IsUndefined(err))
			})
		})
	}
}

func TestCompute_InvalidSpecificationIsInputError(t *testing.T) {
	catalog := quality.Catalog{"sessions": {USL: 100, LSL: 200, Target: 150}}
	_, err := Compute("sessions", []float64{120, 140}, catalog)
	require.Error(t, err)
	assert.True(t, core.IsInputError(err))
}

func TestClean(t *testing.T) {
	got := Clean([]float64{1, 0, math.NaN(), math.Inf(1), -2, 3})
	assert.Equal(t, []float64{1, -2, 3}, got)
}

func newTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable("test")
	require.NoError(t, table.AddColumn("sessions", []float64{480, 500, 520, 510, 495}))
	require.NoError(t, table.AddColumn("bounceRate", []float64{40, 40, 40, 40, 40}))
	require.NoError(t, table.AddColumn("notInCatalog", []float64{1, 2, 3, 4, 5}))
	return table
}

func TestComputeAll_DropsUndefinedMetrics(t *testing.T) {
	catalog := referenceCatalog().Merge(quality.Catalog{
		"bounceRate": {USL: 60, LSL: 20, Target: 35},
		"eventCount": {USL: 5000, LSL: 500, Target: 2000},
	})

	results := ComputeAll(newTable(t), catalog)
	assert.Len(t, results, 1)
	assert.Contains(t, results, "sessions")

	outcomes := ComputeAllOutcomes(newTable(t), catalog)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "bounceRate", outcomes[0].Metric)
	assert.Equal(t, quality.StatusAbsent, outcomes[0].Status)
	assert.Nil(t, outcomes[0].Result)
	assert.Contains(t, outcomes[0].Reason, "zero standard deviation")
	assert.Equal(t, quality.StatusOK, outcomes[1].Status)
}

func TestPareto(t *testing.T) {
	results := map[string]quality.ProcessCapabilityMetrics{
		"a": {Cp: 1},
		"b": {Cp: 3},
		"c": {Cp: 1},
	}
	entries := Pareto(results)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Metric)
	assert.Equal(t, "a", entries[1].Metric)
	assert.InDelta(t, 60.0, entries[0].CumulativePercent, 1e-9)
	assert.InDelta(t, 80.0, entries[1].CumulativePercent, 1e-9)
	assert.InDelta(t, 100.0, entries[2].CumulativePercent, 1e-9)
}

func TestBelowTarget(t *testing.T) {
	results := map[string]quality.ProcessCapabilityMetrics{
		"ok":  {Cpk: 2},
		"bad": {Cpk: 0.8},
	}
	assert.Equal(t, []string{"bad"}, BelowTarget(results))
}
