package quality

import "fmt"

// TestKind identifies which omnibus test produced a result
type TestKind string

const (
	TestANOVA   TestKind = "anova"
	TestKruskal TestKind = "kruskal"
)

// TestPolicy decides how the omnibus test is chosen
type TestPolicy string

const (
	// PolicySampleSize routes to Kruskal-Wallis when any group has fewer than 2 observations
	PolicySampleSize TestPolicy = "sample_size"
	// PolicyAlwaysNonParametric always routes to Kruskal-Wallis
	PolicyAlwaysNonParametric TestPolicy = "nonparametric"
)

// ParseTestPolicy accepts the config spelling of a policy
func ParseTestPolicy(s string) (TestPolicy, error) {
	switch TestPolicy(s) {
	case PolicySampleSize, "":
		return PolicySampleSize, nil
	case PolicyAlwaysNonParametric:
		return PolicyAlwaysNonParametric, nil
	}
	return "", fmt.Errorf("unknown test policy %q", s)
}

// ============================================================================
// Omnibus results
// ============================================================================

// OmnibusResult is the part shared by both omnibus tests
type OmnibusResult struct {
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	RejectNull bool    `json:"reject_null"`
	Conclusion string  `json:"conclusion"`
}

// AnovaResult is a one-way ANOVA F test
type AnovaResult struct {
	OmnibusResult
	DFBetween  int     `json:"df_between"`
	DFWithin   int     `json:"df_within"`
	MSBetween  float64 `json:"ms_between"`
	MSWithin   float64 `json:"ms_within"`
	EtaSquared float64 `json:"eta_squared"` // SSB / SST
}

// KruskalResult is a Kruskal-Wallis H test
type KruskalResult struct {
	OmnibusResult
	DF            int                `json:"df"`
	TieCorrection float64            `json:"tie_correction"`
	MeanRanks     map[string]float64 `json:"mean_ranks"`
}

// PairwiseComparison is one unordered pair of a post-hoc procedure.
// MeanDiff is mean(GroupB) - mean(GroupA).
type PairwiseComparison struct {
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	MeanDiff    float64 `json:"mean_diff"`
	PAdj        float64 `json:"p_adj"`
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Significant bool    `json:"significant"`
}

// PostHocResult is the Tukey HSD follow-up to a rejected ANOVA
type PostHocResult struct {
	Method      string               `json:"method"`
	Alpha       float64              `json:"alpha"`
	Comparisons []PairwiseComparison `json:"comparisons"`
}

// SignificantPairs returns the comparisons flagged significant
func (p *PostHocResult) SignificantPairs() []PairwiseComparison {
	if p == nil {
		return nil
	}
	var out []PairwiseComparison
	for _, c := range p.Comparisons {
		if c.Significant {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// Assumption diagnostics
// ============================================================================

// AssumptionCheck is one advisory diagnostic. PValue is NaN when the test
// could not be computed; Note says why.
type AssumptionCheck struct {
	Test   string  `json:"test"`
	PValue float64 `json:"p_value"`
	Passed bool    `json:"passed"`
	Note   string  `json:"note,omitempty"`
}

// AssumptionReport holds normality and variance homogeneity diagnostics
type AssumptionReport struct {
	Normality     AssumptionCheck `json:"normality"`
	EqualVariance AssumptionCheck `json:"equal_variance"`
}

// IsNormal reports whether the pooled sample passed the normality check
func (r AssumptionReport) IsNormal() bool { return r.Normality.Passed }

// HasEqualVariance reports whether the groups passed the homogeneity check
func (r AssumptionReport) HasEqualVariance() bool { return r.EqualVariance.Passed }

// ============================================================================
// Display products
// ============================================================================

// DensityCurve is a Gaussian KDE evaluated on an even grid for one group
type DensityCurve struct {
	Group     string    `json:"group"`
	Bandwidth float64   `json:"bandwidth"`
	X         []float64 `json:"x"`
	Density   []float64 `json:"density"`
}

// GroupSummary is the per-group dispersion shown next to a test
type GroupSummary struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ============================================================================
// Result union
// ============================================================================

// HypothesisTestResult is a tagged union: exactly one of Anova or Kruskal is set
// unless Error is non-empty, in which case neither is.
type HypothesisTestResult struct {
	Metric            string            `json:"metric"`
	Test              TestKind          `json:"test"`
	Policy            TestPolicy        `json:"policy"`
	Alpha             float64           `json:"alpha"`
	Anova             *AnovaResult      `json:"anova,omitempty"`
	Kruskal           *KruskalResult    `json:"kruskal,omitempty"`
	PostHoc           *PostHocResult    `json:"post_hoc,omitempty"`
	Assumptions       *AssumptionReport `json:"assumptions,omitempty"`
	Groups            []GroupSummary    `json:"groups"`
	Density           []DensityCurve    `json:"density,omitempty"`
	SkippedForDensity []string          `json:"skipped_for_density,omitempty"`
	Error             string            `json:"error,omitempty"`
}

// Failed reports whether the underlying statistical routine failed
func (r *HypothesisTestResult) Failed() bool {
	return r.Error != ""
}

// Omnibus returns the shared part of whichever test ran, or nil on failure
func (r *HypothesisTestResult) Omnibus() *OmnibusResult {
	switch {
	case r.Anova != nil:
		return &r.Anova.OmnibusResult
	case r.Kruskal != nil:
		return &r.Kruskal.OmnibusResult
	}
	return nil
}

// PValue returns the omnibus p-value, or 0 when the test failed
func (r *HypothesisTestResult) PValue() float64 {
	if o := r.Omnibus(); o != nil {
		return o.PValue
	}
	return 0
}

// RejectNull reports the omnibus decision
func (r *HypothesisTestResult) RejectNull() bool {
	if o := r.Omnibus(); o != nil {
		return o.RejectNull
	}
	return false
}

// Conclusion returns the human-readable decision or the error text
func (r *HypothesisTestResult) Conclusion() string {
	if o := r.Omnibus(); o != nil {
		return o.Conclusion
	}
	return r.Error
}
