// Package capability computes process capability indices (Cp, Cpk, Cpm) for
// metric samples against their specification limits.
//
// Cleaning policy: NaN, infinities and exact zeros are dropped before any
// statistic is computed. Analytics exports write 0 for rows where a metric
// was not collected, so a zero is a collection artifact here, not a reading.
// The policy is specific to these metrics and is not applied anywhere else.
package capability

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
)

// Clean returns the observations that take part in a capability computation
func Clean(sample []float64) []float64 {
	cleaned := make([]float64, 0, len(sample))
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
			continue
		}
		cleaned = append(cleaned, v)
	}
	return cleaned
}

// Compute returns the capability of one metric's sample. The returned error
// wraps core.ErrComputationUndefined when the indices do not exist: fewer than
// 2 valid observations, no specification, or zero sample standard deviation.
func Compute(metric string, sample []float64, catalog quality.Catalog) (*quality.ProcessCapabilityMetrics, error) {
	spec, ok := catalog.Lookup(metric)
	if !ok {
		return nil, core.NewUndefinedError(metric, core.ErrNoSpecification)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	data := Clean(sample)
	if len(data) < 2 {
		return nil, core.NewUndefinedError(metric, core.ErrTooFewObservations)
	}

	// A constant sample can leave rounding residue in the computed deviation
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	if lo == hi {
		return nil, core.NewUndefinedError(metric, core.ErrZeroVariance)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, core.NewUndefinedError(metric, err)
	}
	std, err := stats.StandardDeviationSample(data)
	if err != nil {
		return nil, core.NewUndefinedError(metric, err)
	}
	if std == 0 || math.IsNaN(std) {
		return nil, core.NewUndefinedError(metric, core.ErrZeroVariance)
	}

	return indices(metric, spec, mean, std, len(data)), nil
}

func indices(metric string, spec quality.MetricSpecification, mean, std float64, n int) *quality.ProcessCapabilityMetrics {
	cp := (spec.USL - spec.LSL) / (6 * std)
	cpu := (spec.USL - mean) / (3 * std)
	cpl := (mean - spec.LSL) / (3 * std)
	offset := (mean - spec.Target) / std

	return &quality.ProcessCapabilityMetrics{
		Metric: metric,
		Cp:     cp,
		Cpk:    math.Min(cpu, cpl),
		Cpm:    cp / math.Sqrt(1+offset*offset),
		Cpu:    cpu,
		Cpl:    cpl,
		Mean:   mean,
		Std:    std,
		N:      n,
		Target: spec.Target,
		USL:    spec.USL,
		LSL:    spec.LSL,
	}
}

// ComputeAll computes capability for every metric present in both the table
// and the catalog. Metrics whose indices are undefined are left out.
func ComputeAll(table *dataset.Table, catalog quality.Catalog) map[string]quality.ProcessCapabilityMetrics {
	results := make(map[string]quality.ProcessCapabilityMetrics)
	for _, outcome := range ComputeAllOutcomes(table, catalog) {
		if outcome.Status == quality.StatusOK {
			results[outcome.Metric] = *outcome.Result
		}
	}
	return results
}

// ComputeAllOutcomes is ComputeAll with the per-metric status kept, in metric name order
func ComputeAllOutcomes(table *dataset.Table, catalog quality.Catalog) []quality.CapabilityOutcome {
	var outcomes []quality.CapabilityOutcome
	for _, metric := range catalog.Names() {
		sample, ok := table.GetColumnData(metric)
		if !ok {
			continue
		}
		outcomes = append(outcomes, Outcome(metric, sample, catalog))
	}
	return outcomes
}

// Outcome runs Compute and tags the result
func Outcome(metric string, sample []float64, catalog quality.Catalog) quality.CapabilityOutcome {
	out := quality.CapabilityOutcome{Outcome: quality.Outcome{Metric: metric, Kind: string(core.RunCapability)}}
	result, err := Compute(metric, sample, catalog)
	switch {
	case err == nil:
		out.Status = quality.StatusOK
		out.Result = result
	case core.IsUndefined(err):
		out.Status = quality.StatusAbsent
		out.Reason = err.Error()
	default:
		out.Status = quality.StatusError
		out.Reason = err.Error()
	}
	return out
}

// Pareto ranks capability results by Cp, highest first, with the running
// share of the Cp total in percent.
func Pareto(results map[string]quality.ProcessCapabilityMetrics) []quality.ParetoEntry {
	entries := make([]quality.ParetoEntry, 0, len(results))
	total := 0.0
	for metric, r := range results {
		entries = append(entries, quality.ParetoEntry{Metric: metric, Cp: r.Cp})
		total += r.Cp
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cp != entries[j].Cp {
			return entries[i].Cp > entries[j].Cp
		}
		return entries[i].Metric < entries[j].Metric
	})
	if total <= 0 {
		return entries
	}
	running := 0.0
	for i := range entries {
		running += entries[i].Cp
		entries[i].CumulativePercent = 100 * running / total
	}
	return entries
}

// BelowTarget returns the metrics whose Cpk misses quality.CapabilityTarget, sorted
func BelowTarget(results map[string]quality.ProcessCapabilityMetrics) []string {
	var metrics []string
	for metric, r := range results {
		if !r.MeetsTarget() {
			metrics = append(metrics, metric)
		}
	}
	sort.Strings(metrics)
	return metrics
}
