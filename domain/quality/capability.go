package quality

// CapabilityTarget is the conventional minimum acceptable capability index
const CapabilityTarget = 1.33

// ProcessCapabilityMetrics is the capability of one metric against its specification.
// A metric whose indices are undefined has no ProcessCapabilityMetrics at all.
type ProcessCapabilityMetrics struct {
	Metric string  `json:"metric"`
	Cp     float64 `json:"cp"`
	Cpk    float64 `json:"cpk"`
	Cpm    float64 `json:"cpm"`
	Cpu    float64 `json:"cpu"`
	Cpl    float64 `json:"cpl"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"` // sample standard deviation, ddof = 1
	N      int     `json:"n"`   // observations left after cleaning
	Target float64 `json:"target"`
	USL    float64 `json:"usl"`
	LSL    float64 `json:"lsl"`
}

// MeetsTarget reports whether Cpk reaches CapabilityTarget
func (m ProcessCapabilityMetrics) MeetsTarget() bool {
	return m.Cpk >= CapabilityTarget
}

// ParetoEntry is one bar of the Cp Pareto ranking
type ParetoEntry struct {
	Metric            string  `json:"metric"`
	Cp                float64 `json:"cp"`
	CumulativePercent float64 `json:"cumulative_percent"`
}
