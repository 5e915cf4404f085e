package quality

// Status tags each item of a batch run
type Status string

const (
	StatusOK     Status = "ok"
	StatusAbsent Status = "absent" // computation undefined, excluded from aggregates
	StatusError  Status = "error"  // statistical routine failed
)

// Outcome records what happened to one metric or test in a batch
type Outcome struct {
	Metric string `json:"metric"`
	Kind   string `json:"kind"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// CapabilityOutcome pairs a capability result with its status
type CapabilityOutcome struct {
	Outcome
	Result *ProcessCapabilityMetrics `json:"result,omitempty"`
}

// HypothesisOutcome pairs a hypothesis result with its status
type HypothesisOutcome struct {
	Outcome
	Result *HypothesisTestResult `json:"result,omitempty"`
}

// Tally counts outcomes per status
func Tally(outcomes []Outcome) map[Status]int {
	counts := map[Status]int{StatusOK: 0, StatusAbsent: 0, StatusError: 0}
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}
