package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

// normalScores returns n evenly spaced standard normal quantiles
func normalScores(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
	}
	return out
}

// exponentialScores returns n evenly spaced unit exponential quantiles
func exponentialScores(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = -math.Log(1 - (float64(i)+0.5)/float64(n))
	}
	return out
}

func TestShapiroWilk_ReferenceValues(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		wantW float64
		wantP float64
	}{
		{"three points", []float64{1, 2, 4}, 0.964286, 0.636887},
		{"eleven points", []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}, 0.788815, 0.006704},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, err := shapiroWilk(tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantW, w, 1e-5)
			assert.InDelta(t, tt.wantP, p, 1e-5)
		})
	}
}

func TestShapiroWilk_OrderIndependent(t *testing.T) {
	w1, p1, err := shapiroWilk([]float64{236, 148, 195, 154, 182, 158, 170, 160, 166, 161, 162})
	require.NoError(t, err)
	w2, p2, err := shapiroWilk([]float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236})
	require.NoError(t, err)
	assert.Equal(t, w2, w1)
	assert.Equal(t, p2, p1)
}

func TestShapiroWilk_Shape(t *testing.T) {
	_, p, err := shapiroWilk(normalScores(200))
	require.NoError(t, err)
	assert.Greater(t, p, 0.5)

	_, p, err = shapiroWilk(exponentialScores(200))
	require.NoError(t, err)
	assert.Less(t, p, 1e-6)
}

func TestShapiroWilk_Undefined(t *testing.T) {
	_, _, err := shapiroWilk([]float64{1, 2})
	assert.Error(t, err)

	_, _, err = shapiroWilk([]float64{4, 4, 4, 4})
	assert.ErrorContains(t, err, "constant")
}

func TestNormality_LargeSampleUsesK2(t *testing.T) {
	test, p, err := normality(normalScores(6000))
	require.NoError(t, err)
	assert.Equal(t, testDAgostino, test)
	assert.Greater(t, p, 0.5)

	test, p, err = normality(exponentialScores(6000))
	require.NoError(t, err)
	assert.Equal(t, testDAgostino, test)
	assert.Less(t, p, 1e-6)

	test, _, err = normality(normalScores(50))
	require.NoError(t, err)
	assert.Equal(t, testShapiro, test)
}

func TestPoly(t *testing.T) {
	assert.Equal(t, 1.0+2*3+3*9, poly([]float64{1, 2, 3}, 3))
	assert.Equal(t, 0.0, poly(nil, 3))
}
