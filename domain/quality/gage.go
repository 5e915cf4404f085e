package quality

import (
	"fmt"
	"strings"
)

// Variance sources in their fixed display order. Report code indexes
// GageComponents by these positions.
const (
	SourceOperator = iota
	SourcePart
	SourceInteraction
	SourceRepeatability
)

// GageSources names the variance sources, in order
var GageSources = [4]string{"Operator", "Part", "Operator by Part", "Repeatability"}

// GageComponents is the Gage R&R variance decomposition
type GageComponents struct {
	Variances [4]float64 `json:"variances"`
	StdDevs   [4]float64 `json:"std_devs"`
	Operators int        `json:"operators"`
	Parts     int        `json:"parts"`
	Repeats   int        `json:"repeats"`
}

// OperatorVariance returns the operator component
func (g GageComponents) OperatorVariance() float64 { return g.Variances[SourceOperator] }

// PartVariance returns the part component
func (g GageComponents) PartVariance() float64 { return g.Variances[SourcePart] }

// InteractionVariance returns the operator-by-part component
func (g GageComponents) InteractionVariance() float64 { return g.Variances[SourceInteraction] }

// RepeatabilityVariance returns the repeatability component
func (g GageComponents) RepeatabilityVariance() float64 { return g.Variances[SourceRepeatability] }

// TotalVariance sums the four components
func (g GageComponents) TotalVariance() float64 {
	total := 0.0
	for _, v := range g.Variances {
		total += v
	}
	return total
}

// Contributions returns each source's share of the total variance in percent.
// All zeros when the total is zero.
func (g GageComponents) Contributions() [4]float64 {
	var out [4]float64
	total := g.TotalVariance()
	if total <= 0 {
		return out
	}
	for i, v := range g.Variances {
		out[i] = 100 * v / total
	}
	return out
}

// Summary renders the decomposition as a fixed-width text table
func (g GageComponents) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gage R&R (%d operators x %d parts x %d repeats)\n", g.Operators, g.Parts, g.Repeats)
	fmt.Fprintf(&b, "%-18s %12s %12s %10s\n", "Source", "Variance", "Std Dev", "% Contrib")
	contrib := g.Contributions()
	for i, name := range GageSources {
		fmt.Fprintf(&b, "%-18s %12.4f %12.4f %9.2f%%\n", name, g.Variances[i], g.StdDevs[i], contrib[i])
	}
	fmt.Fprintf(&b, "%-18s %12.4f\n", "Total", g.TotalVariance())
	return b.String()
}
