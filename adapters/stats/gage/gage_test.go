package gage

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
)

func constantCube(operators, parts, repeats int, value float64) dataset.MeasurementCube {
	cube := make(dataset.MeasurementCube, operators)
	for o := range cube {
		cube[o] = make([][]float64, parts)
		for p := range cube[o] {
			cube[o][p] = make([]float64, repeats)
			for r := range cube[o][p] {
				cube[o][p][r] = value
			}
		}
	}
	return cube
}

func TestDecompose_ConstantCubeIsExactlyZero(t *testing.T) {
	for _, value := range []float64{0, 0.1, 7, -3.3, 1e9 + 0.7} {
		g, err := Decompose(constantCube(3, 5, 4, value))
		require.NoError(t, err)
		for i := range g.Variances {
			assert.Equal(t, 0.0, g.Variances[i], "%s variance for value %v", Sources[i], value)
			assert.Equal(t, 0.0, g.StdDevs[i])
		}
	}
}

func TestDecompose_KnownComponents(t *testing.T) {
	tests := []struct {
		name string
		cube dataset.MeasurementCube
		want [4]float64
	}{
		{
			name: "additive operator and part effects",
			cube: dataset.MeasurementCube{
				{{1, 3}, {5, 7}},
				{{2, 4}, {6, 8}},
			},
			want: [4]float64{0.25, 4, 0, 1},
		},
		{
			name: "pure interaction",
			cube: dataset.MeasurementCube{
				{{1, 1}, {3, 3}},
				{{3, 3}, {1, 1}},
			},
			want: [4]float64{0, 0, 1, 0},
		},
		{
			name: "single operator",
			cube: dataset.MeasurementCube{
				{{10, 12}, {20, 22}, {30, 32}},
			},
			want: [4]float64{0, 200.0 / 3, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decompose(tt.cube)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want[:], g.Variances[:], 1e-12)
		})
	}
}

func TestDecompose_OrderingAndStdDevs(t *testing.T) {
	assert.Equal(t, [4]string{"Operator", "Part", "Operator by Part", "Repeatability"}, Sources)

	rng := rand.New(rand.NewSource(42))
	cube := make(dataset.MeasurementCube, 3)
	for o := range cube {
		cube[o] = make([][]float64, 10)
		for p := range cube[o] {
			cube[o][p] = make([]float64, 3)
			for r := range cube[o][p] {
				cube[o][p][r] = 50 + float64(p)*2 + float64(o)*0.5 + rng.NormFloat64()
			}
		}
	}

	g, err := Decompose(cube)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Operators)
	assert.Equal(t, 10, g.Parts)
	assert.Equal(t, 3, g.Repeats)
	for i := range g.Variances {
		assert.GreaterOrEqual(t, g.Variances[i], 0.0)
		assert.Equal(t, math.Sqrt(g.Variances[i]), g.StdDevs[i])
	}
	assert.Greater(t, g.PartVariance(), g.OperatorVariance())
	assert.Equal(t, g.Variances[quality.SourceRepeatability], g.RepeatabilityVariance())
	assert.InDelta(t, 100.0, sum(g.Contributions()), 1e-9)
}

func TestDecompose_MalformedCube(t *testing.T) {
	tests := []struct {
		name string
		cube dataset.MeasurementCube
	}{
		{"empty", dataset.MeasurementCube{}},
		{"ragged parts", dataset.MeasurementCube{{{1, 2}, {3, 4}}, {{1, 2}}}},
		{"ragged repeats", dataset.MeasurementCube{{{1, 2}, {3}}}},
		{"nan", dataset.MeasurementCube{{{1, math.NaN()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.cube)
			require.Error(t, err)
			assert.True(t, core.IsInputError(err))
		})
	}
}

func TestPopVariance(t *testing.T) {
	assert.Equal(t, 0.0, popVariance(nil))
	assert.Equal(t, 0.0, popVariance([]float64{4}))
	assert.InDelta(t, 1.25, popVariance([]float64{1, 2, 3, 4}), 1e-12)
}

func sum(values [4]float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
