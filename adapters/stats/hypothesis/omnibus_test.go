package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneWayANOVA_KnownTable(t *testing.T) {
	table, err := oneWayANOVA([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)

	assert.Equal(t, 2, table.dfBetween)
	assert.Equal(t, 6, table.dfWithin)
	assert.InDelta(t, 54.0, table.ssBetween, 1e-9)
	assert.InDelta(t, 6.0, table.ssWithin, 1e-9)
	assert.InDelta(t, 27.0, table.statistic, 1e-9)
	// F(2, d) survival is (1 + 2F/d)^(-d/2)
	assert.InDelta(t, 0.001, table.pValue, 1e-9)

	res := table.result("sessions", 0.05)
	assert.True(t, res.RejectNull)
	assert.InDelta(t, 0.9, res.EtaSquared, 1e-9)
	assert.Equal(t, "Reject the null hypothesis. There is significant difference in sessions between groups.", res.Conclusion)
}

func TestOneWayANOVA_Degenerate(t *testing.T) {
	_, err := oneWayANOVA([][]float64{{3, 3}, {3, 3}})
	assert.ErrorContains(t, err, "identical")

	_, err = oneWayANOVA([][]float64{{1}, {2}})
	assert.ErrorContains(t, err, "degrees of freedom")

	table, err := oneWayANOVA([][]float64{{1, 1}, {2, 2}})
	require.NoError(t, err)
	assert.True(t, math.IsInf(table.statistic, 1))
	assert.Equal(t, 0.0, table.pValue)
}

func TestKruskalWallis_KnownStatistic(t *testing.T) {
	s, err := kruskalWallis([][]float64{{1, 2, 3}, {4, 5, 6}, {7}})
	require.NoError(t, err)

	assert.Equal(t, 2, s.df)
	assert.Equal(t, 1.0, s.correction)
	assert.InDelta(t, 36.0/7, s.h, 1e-9)
	assert.InDelta(t, math.Exp(-18.0/7), s.pValue, 1e-9)
	assert.Equal(t, []float64{2, 5, 7}, s.meanRanks)

	res := s.result("eventCount", []string{"a", "b", "c"}, 0.05)
	assert.False(t, res.RejectNull)
	assert.Equal(t, 7.0, res.MeanRanks["c"])
	assert.Contains(t, res.Conclusion, "Fail to reject")
}

func TestKruskalWallis_Ties(t *testing.T) {
	s, err := kruskalWallis([][]float64{{1, 1, 2}, {2, 3, 3}})
	require.NoError(t, err)
	// three tie runs of size 2: C = 1 - 3*6/(216-6)
	assert.InDelta(t, 1-18.0/210, s.correction, 1e-12)
	assert.Greater(t, s.h, 0.0)

	_, err = kruskalWallis([][]float64{{5, 5}, {5}})
	assert.ErrorContains(t, err, "identical")
}

func TestLeveneMedian(t *testing.T) {
	_, equal, err := leveneMedian([][]float64{
		{9, 10, 11, 9, 10, 11, 9, 10, 11, 10},
		{19, 20, 21, 19, 20, 21, 19, 20, 21, 20},
	})
	require.NoError(t, err)
	assert.Greater(t, equal, 0.5)

	_, unequal, err := leveneMedian([][]float64{
		{9, 10, 11, 9, 10, 11, 9, 10, 11, 10},
		{0, 20, 0, 20, 0, 20, 0, 20, 0, 20},
	})
	require.NoError(t, err)
	assert.Less(t, unequal, 0.001)

	_, _, err = leveneMedian([][]float64{{1}, {2}})
	assert.Error(t, err)
}
