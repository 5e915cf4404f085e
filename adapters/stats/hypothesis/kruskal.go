package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"gospc/domain/quality"
)

type kruskalStat struct {
	h          float64
	pValue     float64
	df         int
	correction float64
	meanRanks  []float64
}

// kruskalWallis computes the tie-corrected H statistic with a chi-squared
// approximation on k-1 degrees of freedom.
func kruskalWallis(groups [][]float64) (*kruskalStat, error) {
	k := len(groups)
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 groups, got %d", k)
	}

	type obs struct {
		value float64
		group int
	}
	var all []obs
	for i, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("group %d is empty", i)
		}
		for _, x := range g {
			all = append(all, obs{value: x, group: i})
		}
	}
	n := len(all)
	sort.SliceStable(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Average ranks over tie runs
	rankSums := make([]float64, k)
	tieTerm := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && all[j].value == all[i].value {
			j++
		}
		rank := float64(i+j+1) / 2
		for m := i; m < j; m++ {
			rankSums[all[m].group] += rank
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}

	nf := float64(n)
	correction := 1 - tieTerm/(nf*nf*nf-nf)
	if correction <= 0 {
		return nil, fmt.Errorf("all numbers are identical in kruskal")
	}

	s := &kruskalStat{df: k - 1, correction: correction, meanRanks: make([]float64, k)}
	sum := 0.0
	for i, g := range groups {
		sum += rankSums[i] * rankSums[i] / float64(len(g))
		s.meanRanks[i] = rankSums[i] / float64(len(g))
	}
	h := 12/(nf*(nf+1))*sum - 3*(nf+1)
	s.h = math.Max(h/correction, 0)
	s.pValue = distuv.ChiSquared{K: float64(s.df)}.Survival(s.h)
	return s, nil
}

func (s *kruskalStat) result(metric string, labels []string, alpha float64) *quality.KruskalResult {
	reject := s.pValue < alpha
	ranks := make(map[string]float64, len(labels))
	for i, label := range labels {
		ranks[label] = s.meanRanks[i]
	}
	return &quality.KruskalResult{
		OmnibusResult: quality.OmnibusResult{
			Statistic:  s.h,
			PValue:     s.pValue,
			RejectNull: reject,
			Conclusion: conclusion(metric, reject),
		},
		DF:            s.df,
		TieCorrection: s.correction,
		MeanRanks:     ranks,
	}
}
