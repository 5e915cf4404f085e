package hypothesis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// leveneMedian is the Brown-Forsythe variant of Levene's test: a one-way
// ANOVA on absolute deviations from each group's median.
func leveneMedian(groups [][]float64) (statistic, pValue float64, err error) {
	deviations := make([][]float64, len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			return math.NaN(), math.NaN(), fmt.Errorf("group %d is empty", i)
		}
		median, err := stats.Median(g)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		deviations[i] = make([]float64, len(g))
		for j, x := range g {
			deviations[i][j] = math.Abs(x - median)
		}
	}

	t, err := oneWayANOVA(deviations)
	if err != nil {
		return math.NaN(), math.NaN(), fmt.Errorf("levene: %w", err)
	}
	return t.statistic, t.pValue, nil
}
