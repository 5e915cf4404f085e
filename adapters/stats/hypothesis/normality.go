package hypothesis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Normality test names reported in AssumptionCheck.Test
const (
	testShapiro   = "shapiro_wilk"
	testDAgostino = "dagostino_k2"
	testLevene    = "levene_median"
)

// normality picks Shapiro-Wilk up to its validity limit and D'Agostino's K²
// above it.
func normality(data []float64) (test string, pValue float64, err error) {
	if len(data) > shapiroMaxN {
		p, err := dagostinoK2(data)
		return testDAgostino, p, err
	}
	_, p, err := shapiroWilk(data)
	return testShapiro, p, err
}

// dagostinoK2 combines the skewness and kurtosis z-scores into a χ²(2) statistic
func dagostinoK2(data []float64) (float64, error) {
	n := float64(len(data))
	if n < 8 {
		return math.NaN(), fmt.Errorf("k2 needs at least 8 observations, got %d", len(data))
	}

	mean, _ := stats.Mean(data)
	std, _ := stats.StandardDeviationPopulation(data)
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return math.NaN(), fmt.Errorf("k2 undefined for constant data")
	}

	var m3, m4 float64
	for _, x := range data {
		z := (x - mean) / std
		m3 += z * z * z
		m4 += z * z * z * z
	}
	g1 := m3 / n
	b2 := m4 / n

	// Skewness transform
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := (3 * (n*n + 27*n - 70) * (n + 1) * (n + 3)) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 1 {
		return math.NaN(), fmt.Errorf("k2 skewness transform undefined")
	}
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform (Anscombe-Glynn)
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(v)
	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		return 0, nil
	}
	z2 := (term - math.Cbrt((1-2/a)/den)) / math.Sqrt(2/(9*a))

	return distuv.ChiSquared{K: 2}.Survival(z1*z1 + z2*z2), nil
}
