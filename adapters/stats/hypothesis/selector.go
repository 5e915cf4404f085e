// Package hypothesis compares one metric across groups. It picks one-way
// ANOVA or Kruskal-Wallis according to a test policy, follows a rejected
// ANOVA with Tukey HSD, and reports advisory normality and variance
// homogeneity diagnostics.
package hypothesis

import (
	"fmt"
	"math"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
)

const minGroupSizeForANOVA = 2

type options struct {
	policy      quality.TestPolicy
	assumptions bool
}

// Option configures TestGroups
type Option func(*options)

// WithPolicy sets the test selection policy. The default is quality.PolicySampleSize.
func WithPolicy(policy quality.TestPolicy) Option {
	return func(o *options) {
		if policy != "" {
			o.policy = policy
		}
	}
}

// WithAssumptions attaches CheckAssumptions output to the result
func WithAssumptions() Option {
	return func(o *options) { o.assumptions = true }
}

// TestGroups runs the omnibus test over a grouped sample. Missing values are
// dropped and groups left empty are ignored. Input errors are returned as
// errors; failures of the statistical routines come back as a result whose
// Error field is set.
func TestGroups(sample dataset.GroupedSample, alpha float64, opts ...Option) (*quality.HypothesisTestResult, error) {
	o := options{policy: quality.PolicySampleSize}
	for _, opt := range opts {
		opt(&o)
	}

	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("%w: got %v", core.ErrInvalidAlpha, alpha)
	}
	clean := cleanSample(sample)
	if clean.Len() == 0 {
		return nil, core.ErrEmptySample
	}
	if len(clean.Groups) < 2 {
		return nil, fmt.Errorf("%w: got %d", core.ErrTooFewGroups, len(clean.Groups))
	}

	result := &quality.HypothesisTestResult{
		Metric: clean.Metric,
		Policy: o.policy,
		Alpha:  alpha,
		Groups: groupSummaries(clean),
	}
	result.Density, result.SkippedForDensity = densityCurves(clean)

	if selectsKruskal(clean, o.policy) {
		result.Test = quality.TestKruskal
	} else {
		result.Test = quality.TestANOVA
	}
	runOmnibus(result, clean, alpha)

	if o.assumptions {
		report := CheckAssumptions(clean.Pooled(), clean, alpha)
		result.Assumptions = &report
	}
	return result, nil
}

// selectsKruskal applies the policy: any group below the ANOVA minimum, or
// the non-parametric policy, routes to Kruskal-Wallis.
func selectsKruskal(sample dataset.GroupedSample, policy quality.TestPolicy) bool {
	if policy == quality.PolicyAlwaysNonParametric {
		return true
	}
	return sample.MinGroupSize() < minGroupSizeForANOVA
}

func runOmnibus(result *quality.HypothesisTestResult, sample dataset.GroupedSample, alpha float64) {
	name := "ANOVA"
	if result.Test == quality.TestKruskal {
		name = "Kruskal-Wallis"
	}
	defer func() {
		if r := recover(); r != nil {
			result.Anova, result.Kruskal, result.PostHoc = nil, nil, nil
			result.Error = fmt.Sprintf("Error in %s test: %v", name, r)
		}
	}()

	metric := displayMetric(sample.Metric)
	labels, groups := sample.Ordered()

	switch result.Test {
	case quality.TestKruskal:
		s, err := kruskalWallis(groups)
		if err != nil {
			result.Error = fmt.Sprintf("Error in %s test: %v", name, err)
			return
		}
		result.Kruskal = s.result(metric, labels, alpha)
	default:
		t, err := oneWayANOVA(groups)
		if err != nil {
			result.Error = fmt.Sprintf("Error in %s test: %v", name, err)
			return
		}
		result.Anova = t.result(metric, alpha)
		if result.Anova.RejectNull {
			result.PostHoc = tukeyHSD(labels, t, alpha)
		}
	}
}

// CheckAssumptions runs Shapiro-Wilk on the pooled sample (D'Agostino's K²
// beyond 5000 points) and the median-centred Levene test across groups. A
// check that cannot be computed has a NaN p-value, Passed false and a Note.
func CheckAssumptions(pooled []float64, sample dataset.GroupedSample, alpha float64) quality.AssumptionReport {
	if !(alpha > 0 && alpha < 1) {
		alpha = 0.05
	}
	report := quality.AssumptionReport{
		Normality:     quality.AssumptionCheck{Test: testShapiro, PValue: math.NaN()},
		EqualVariance: quality.AssumptionCheck{Test: testLevene, PValue: math.NaN()},
	}

	guard(&report.Normality, func() (float64, error) {
		test, p, err := normality(finite(pooled))
		report.Normality.Test = test
		return p, err
	}, alpha)

	clean := cleanSample(sample)
	guard(&report.EqualVariance, func() (float64, error) {
		if len(clean.Groups) < 2 {
			return math.NaN(), fmt.Errorf("needs at least 2 non-empty groups, got %d", len(clean.Groups))
		}
		_, groups := clean.Ordered()
		_, p, err := leveneMedian(groups)
		return p, err
	}, alpha)

	return report
}

func guard(check *quality.AssumptionCheck, run func() (float64, error), alpha float64) {
	defer func() {
		if r := recover(); r != nil {
			check.PValue, check.Passed = math.NaN(), false
			check.Note = fmt.Sprint(r)
		}
	}()
	p, err := run()
	switch {
	case err != nil:
		check.Note = err.Error()
	case math.IsNaN(p):
		check.Note = "p-value undefined"
	default:
		check.PValue = p
		check.Passed = p > alpha
	}
}

// cleanSample drops non-finite values and the groups they leave empty
func cleanSample(sample dataset.GroupedSample) dataset.GroupedSample {
	groups := make(map[string][]float64, len(sample.Groups))
	for label, values := range sample.Groups {
		if kept := finite(values); len(kept) > 0 {
			groups[label] = kept
		}
	}
	return dataset.GroupedSample{Metric: sample.Metric, Groups: groups}
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func displayMetric(metric string) string {
	if metric == "" {
		return "the metric"
	}
	return metric
}
