package hypothesis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gospc/domain/quality"
)

// anovaTable holds the one-way ANOVA sums the post-hoc step reuses
type anovaTable struct {
	means     []float64
	sizes     []int
	ssBetween float64
	ssWithin  float64
	dfBetween int
	dfWithin  int
	msBetween float64
	msWithin  float64
	statistic float64
	pValue    float64
}

// oneWayANOVA computes the F test across all groups. It fails when the
// statistic does not exist: no residual degrees of freedom, or every value
// equal so both mean squares vanish.
func oneWayANOVA(groups [][]float64) (*anovaTable, error) {
	k := len(groups)
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 groups, got %d", k)
	}

	t := &anovaTable{means: make([]float64, k), sizes: make([]int, k)}
	var pooled []float64
	for i, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("group %d is empty", i)
		}
		t.means[i] = stat.Mean(g, nil)
		t.sizes[i] = len(g)
		pooled = append(pooled, g...)
	}
	n := len(pooled)
	grand := stat.Mean(pooled, nil)

	for i, g := range groups {
		d := t.means[i] - grand
		t.ssBetween += float64(len(g)) * d * d
		for _, x := range g {
			r := x - t.means[i]
			t.ssWithin += r * r
		}
	}

	t.dfBetween = k - 1
	t.dfWithin = n - k
	if t.dfWithin <= 0 {
		return nil, fmt.Errorf("no residual degrees of freedom (%d observations in %d groups)", n, k)
	}
	t.msBetween = t.ssBetween / float64(t.dfBetween)
	t.msWithin = t.ssWithin / float64(t.dfWithin)

	switch {
	case t.msWithin == 0 && t.msBetween == 0:
		return nil, fmt.Errorf("all values are identical, F is undefined")
	case t.msWithin == 0:
		t.statistic = math.Inf(1)
		t.pValue = 0
	default:
		t.statistic = t.msBetween / t.msWithin
		t.pValue = distuv.F{D1: float64(t.dfBetween), D2: float64(t.dfWithin)}.Survival(t.statistic)
	}
	return t, nil
}

func (t *anovaTable) result(metric string, alpha float64) *quality.AnovaResult {
	reject := t.pValue < alpha
	eta := 0.0
	if total := t.ssBetween + t.ssWithin; total > 0 {
		eta = t.ssBetween / total
	}
	return &quality.AnovaResult{
		OmnibusResult: quality.OmnibusResult{
			Statistic:  t.statistic,
			PValue:     t.pValue,
			RejectNull: reject,
			Conclusion: conclusion(metric, reject),
		},
		DFBetween:  t.dfBetween,
		DFWithin:   t.dfWithin,
		MSBetween:  t.msBetween,
		MSWithin:   t.msWithin,
		EtaSquared: eta,
	}
}

func conclusion(metric string, reject bool) string {
	if reject {
		return fmt.Sprintf("Reject the null hypothesis. There is significant difference in %s between groups.", metric)
	}
	return fmt.Sprintf("Fail to reject the null hypothesis. There is no significant difference in %s between groups.", metric)
}
