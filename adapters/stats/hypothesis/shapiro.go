package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	shapiroMinN = 3
	shapiroMaxN = 5000
)

// Royston (1995) polynomial coefficients for the Shapiro-Wilk weights and
// the normalising transform of W.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// shapiroWilk returns W and its p-value for 3 <= n <= 5000
func shapiroWilk(data []float64) (w, pValue float64, err error) {
	n := len(data)
	if n < shapiroMinN || n > shapiroMaxN {
		return math.NaN(), math.NaN(), fmt.Errorf("shapiro-wilk needs %d..%d observations, got %d", shapiroMinN, shapiroMaxN, n)
	}
	x := append([]float64(nil), data...)
	sort.Float64s(x)
	rng := x[n-1] - x[0]
	if rng == 0 {
		return math.NaN(), math.NaN(), fmt.Errorf("shapiro-wilk undefined for constant data")
	}

	a := shapiroWeights(n)

	// Scale by the range before summing squares
	mean := 0.0
	for i := range x {
		x[i] /= rng
		mean += x[i]
	}
	mean /= float64(n)
	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	num := 0.0
	for i := 0; i < n/2; i++ {
		num += a[i] * (x[n-1-i] - x[i])
	}
	w = math.Min(num*num/ss, 1)

	return w, shapiroPValue(w, n), nil
}

// shapiroWeights returns the first n/2 antisymmetric coefficients
func shapiroWeights(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt2 / 2
		return a
	}

	m := make([]float64, half)
	summ2 := 0.0
	an25 := float64(n) + 0.25
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		const pi6, stqr = 6 / math.Pi, math.Pi / 3
		return clamp01(pi6 * (math.Asin(math.Sqrt(w)) - stqr))
	}

	w1 := math.Log(1 - w)
	nf := float64(n)
	var y, m, s float64
	if n <= 11 {
		gamma := poly(swG, nf)
		if w1 >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - w1)
		m = poly(swC3, nf)
		s = math.Exp(poly(swC4, nf))
	} else {
		ln := math.Log(nf)
		y = w1
		m = poly(swC5, ln)
		s = math.Exp(poly(swC6, ln))
	}
	return distuv.UnitNormal.Survival((y - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}
