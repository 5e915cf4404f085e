package hypothesis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gospc/domain/dataset"
	"gospc/domain/quality"
)

const (
	densityPoints = 100
	densityCut    = 3 // grid extends this many bandwidths past the data
)

// densityCurves builds a Gaussian KDE per group with Scott's bandwidth.
// Groups with fewer than 2 observations or zero variance have no density and
// are returned in skipped. This is a display product only.
func densityCurves(sample dataset.GroupedSample) (curves []quality.DensityCurve, skipped []string) {
	for _, label := range sample.Labels() {
		values := sample.Groups[label]
		curve, ok := kde(label, values)
		if !ok {
			skipped = append(skipped, label)
			continue
		}
		curves = append(curves, curve)
	}
	return curves, skipped
}

func kde(label string, values []float64) (quality.DensityCurve, bool) {
	if len(values) < 2 {
		return quality.DensityCurve{}, false
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil || std == 0 || math.IsNaN(std) {
		return quality.DensityCurve{}, false
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	if lo == hi {
		return quality.DensityCurve{}, false
	}

	n := float64(len(values))
	h := std * math.Pow(n, -0.2)
	start := lo - densityCut*h
	step := (hi - lo + 2*densityCut*h) / (densityPoints - 1)

	curve := quality.DensityCurve{
		Group:     label,
		Bandwidth: h,
		X:         make([]float64, densityPoints),
		Density:   make([]float64, densityPoints),
	}
	for i := range curve.X {
		x := start + float64(i)*step
		sum := 0.0
		for _, v := range values {
			sum += distuv.UnitNormal.Prob((x - v) / h)
		}
		curve.X[i] = x
		curve.Density[i] = sum / (n * h)
	}
	return curve, true
}

// groupSummaries describes each group's dispersion in label order
func groupSummaries(sample dataset.GroupedSample) []quality.GroupSummary {
	labels := sample.Labels()
	out := make([]quality.GroupSummary, 0, len(labels))
	for _, label := range labels {
		values := sample.Groups[label]
		s := quality.GroupSummary{Group: label, N: len(values)}
		if len(values) > 0 {
			s.Mean, _ = stats.Mean(values)
			s.Median, _ = stats.Median(values)
			s.Min, _ = stats.Min(values)
			s.Max, _ = stats.Max(values)
		}
		if len(values) > 1 {
			s.Std, _ = stats.StandardDeviationSample(values)
		}
		out = append(out, s)
	}
	return out
}
