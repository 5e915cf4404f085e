package hypothesis

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat/distuv"

	"gospc/domain/quality"
)

const (
	quadNodes = 16

	// Inner integral over the standard normal, truncated where φ is negligible
	rangeLimit    = 8.0
	rangeSegments = 16

	// Outer integral over the studentizing scale s = sqrt(χ²_ν / ν)
	scaleSegments = 32
	scaleTail     = 1e-12

	// Above this many residual degrees of freedom the scale is treated as exact
	largeDF = 5000

	// The normal range CDF is tabulated on [0, rangeGridMax] and is 1 beyond it
	rangeGridMax   = 2 * rangeLimit
	rangeGridSteps = 1024
)

// Legendre nodes over [-rangeLimit, rangeLimit], weights premultiplied by φ(z)
var innerNodes, innerWeights, innerCDF = normalRangeNodes()

func normalRangeNodes() (nodes, weights, cdf []float64) {
	n := rangeSegments * quadNodes
	nodes = make([]float64, n)
	weights = make([]float64, n)
	cdf = make([]float64, n)
	width := 2 * rangeLimit / rangeSegments
	for i := 0; i < rangeSegments; i++ {
		lo := -rangeLimit + float64(i)*width
		quad.Legendre{}.FixedLocations(nodes[i*quadNodes:(i+1)*quadNodes], weights[i*quadNodes:(i+1)*quadNodes], lo, lo+width)
	}
	for i, z := range nodes {
		weights[i] *= distuv.UnitNormal.Prob(z)
		cdf[i] = distuv.UnitNormal.CDF(z)
	}
	return nodes, weights, cdf
}

// normalRangeCDF returns P(R <= w) for the range R of k independent standard
// normals: k ∫ φ(z) [Φ(z) - Φ(z-w)]^(k-1) dz.
func normalRangeCDF(w float64, k int) float64 {
	cdf, _ := normalRange(w, k)
	return cdf
}

// normalRange returns the CDF of the normal range at w and its density
// k(k-1) ∫ φ(z) φ(z-w) [Φ(z) - Φ(z-w)]^(k-2) dz.
func normalRange(w float64, k int) (cdf, pdf float64) {
	if w < 0 {
		return 0, 0
	}
	if w == 0 {
		if k == 2 {
			return 0, 1 / math.SqrtPi
		}
		return 0, 0
	}
	for i, z := range innerNodes {
		d := innerCDF[i] - distuv.UnitNormal.CDF(z-w)
		if d <= 0 {
			continue
		}
		pow := math.Pow(d, float64(k-2))
		cdf += innerWeights[i] * pow * d
		pdf += innerWeights[i] * pow * distuv.UnitNormal.Prob(z-w)
	}
	kf := float64(k)
	return clamp01(kf * cdf), kf * (kf - 1) * pdf
}

// rangeDistribution is the studentized range distribution of k means with
// df residual degrees of freedom. The normal range CDF is tabulated once as a
// Hermite spline and the outer quadrature nodes are fixed, so each CDF call
// is a weighted sum of spline lookups.
type rangeDistribution struct {
	normal  interp.PiecewiseCubic
	scales  []float64 // outer nodes s
	weights []float64 // quadrature weight times the density of s
	exact   bool      // df large enough to skip the outer integral
}

func newRangeDistribution(k int, df float64) *rangeDistribution {
	d := &rangeDistribution{exact: df > largeDF}

	xs := make([]float64, rangeGridSteps+1)
	ys := make([]float64, rangeGridSteps+1)
	dys := make([]float64, rangeGridSteps+1)
	for i := range xs {
		xs[i] = rangeGridMax * float64(i) / rangeGridSteps
		ys[i], dys[i] = normalRange(xs[i], k)
	}
	d.normal.FitWithDerivatives(xs, ys, dys)
	if d.exact {
		return d
	}

	chi := distuv.ChiSquared{K: df}
	lo := math.Sqrt(chi.Quantile(scaleTail) / df)
	hi := math.Sqrt(chi.Quantile(1-scaleTail) / df)
	// log density of s where s² ν ~ χ²_ν
	logNorm := 0.5*df*math.Log(df) - lgamma(0.5*df) - (0.5*df-1)*math.Ln2

	n := scaleSegments * quadNodes
	d.scales = make([]float64, n)
	d.weights = make([]float64, n)
	width := (hi - lo) / scaleSegments
	for i := 0; i < scaleSegments; i++ {
		a := lo + float64(i)*width
		quad.Legendre{}.FixedLocations(d.scales[i*quadNodes:(i+1)*quadNodes], d.weights[i*quadNodes:(i+1)*quadNodes], a, a+width)
	}
	for i, s := range d.scales {
		if s <= 0 {
			d.weights[i] = 0
			continue
		}
		d.weights[i] *= math.Exp(logNorm + (df-1)*math.Log(s) - 0.5*df*s*s)
	}
	return d
}

func (d *rangeDistribution) normalCDF(w float64) float64 {
	switch {
	case w <= 0:
		return 0
	case w >= rangeGridMax:
		return 1
	}
	return clamp01(d.normal.Predict(w))
}

// CDF returns P(Q <= q)
func (d *rangeDistribution) CDF(q float64) float64 {
	if q <= 0 {
		return 0
	}
	if math.IsInf(q, 1) {
		return 1
	}
	if d.exact {
		return d.normalCDF(q)
	}
	total := 0.0
	for i, s := range d.scales {
		if d.weights[i] != 0 {
			total += d.weights[i] * d.normalCDF(q*s)
		}
	}
	return clamp01(total)
}

// Quantile inverts CDF by bisection
func (d *rangeDistribution) Quantile(p float64) float64 {
	lo, hi := 0.0, 8.0
	for d.CDF(hi) < p && hi < 1e4 {
		lo = hi
		hi *= 2
	}
	for i := 0; i < 60 && hi-lo > 1e-7; i++ {
		mid := 0.5 * (lo + hi)
		if d.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// studentizedRangeCDF returns P(Q <= q) for the studentized range of k means
// with df residual degrees of freedom.
func studentizedRangeCDF(q float64, k int, df float64) float64 {
	return newRangeDistribution(k, df).CDF(q)
}

// studentizedRangeQuantile returns the p quantile of the studentized range
func studentizedRangeQuantile(p float64, k int, df float64) float64 {
	return newRangeDistribution(k, df).Quantile(p)
}

// tukeyHSD runs Tukey-Kramer pairwise comparisons on the ANOVA's group
// means, one record per unordered pair in label order. MeanDiff is
// mean(b) - mean(a). A pair is significant when its interval excludes zero.
func tukeyHSD(labels []string, t *anovaTable, alpha float64) *quality.PostHocResult {
	k := len(labels)
	dist := newRangeDistribution(k, float64(t.dfWithin))
	critical := dist.Quantile(1 - alpha)

	result := &quality.PostHocResult{Method: "tukey_hsd", Alpha: alpha}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := t.means[j] - t.means[i]
			se := math.Sqrt(t.msWithin / 2 * (1/float64(t.sizes[i]) + 1/float64(t.sizes[j])))

			c := quality.PairwiseComparison{
				GroupA:   labels[i],
				GroupB:   labels[j],
				MeanDiff: diff,
				Lower:    diff - critical*se,
				Upper:    diff + critical*se,
			}
			if se == 0 {
				c.Significant = diff != 0
				c.PAdj = 1
				if c.Significant {
					c.PAdj = 0
				}
			} else {
				q := math.Abs(diff) / se
				c.PAdj = clamp01(1 - dist.CDF(q))
				c.Significant = q > critical
			}
			result.Comparisons = append(result.Comparisons, c)
		}
	}
	return result
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
