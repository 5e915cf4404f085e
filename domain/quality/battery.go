package quality

import "gospc/domain/core"

// BatteryReport is everything one analysis run produced over a table
type BatteryReport struct {
	Source      string              `json:"source"`
	Period      core.DateRange      `json:"period"`
	GroupColumn string              `json:"group_column"`
	Alpha       float64             `json:"alpha"`
	Policy      TestPolicy          `json:"policy"`
	Rows        int                 `json:"rows"`
	Capability  []CapabilityOutcome `json:"capability"`
	Pareto      []ParetoEntry       `json:"pareto"`
	Hypothesis  []HypothesisOutcome `json:"hypothesis"`
	Gage        *GageComponents     `json:"gage,omitempty"`
}

// Outcomes flattens the per-item statuses of the report
func (r *BatteryReport) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(r.Capability)+len(r.Hypothesis))
	for _, c := range r.Capability {
		out = append(out, c.Outcome)
	}
	for _, h := range r.Hypothesis {
		out = append(out, h.Outcome)
	}
	return out
}

// CapabilityResults returns the successful capability results keyed by metric
func (r *BatteryReport) CapabilityResults() map[string]ProcessCapabilityMetrics {
	results := make(map[string]ProcessCapabilityMetrics)
	for _, c := range r.Capability {
		if c.Status == StatusOK && c.Result != nil {
			results[c.Metric] = *c.Result
		}
	}
	return results
}
