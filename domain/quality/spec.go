package quality

import (
	"fmt"
	"math"
	"sort"

	"gospc/domain/core"
)

// MetricSpecification holds the specification limits and target for one metric.
// INVARIANT: USL > LSL
type MetricSpecification struct {
	USL    float64 `json:"usl" yaml:"usl"`       // Upper Specification Limit
	LSL    float64 `json:"lsl" yaml:"lsl"`       // Lower Specification Limit
	Target float64 `json:"target" yaml:"target"` // Target value
}

// Validate checks the limits are finite and ordered
func (s MetricSpecification) Validate() error {
	for _, v := range []float64{s.USL, s.LSL, s.Target} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", core.ErrInvalidSpec)
		}
	}
	if s.USL <= s.LSL {
		return fmt.Errorf("%w: usl %.4g must exceed lsl %.4g", core.ErrInvalidSpec, s.USL, s.LSL)
	}
	return nil
}

// Catalog maps metric names to their specifications. Read-only at analysis time.
type Catalog map[string]MetricSpecification

// Lookup returns the specification for a metric
func (c Catalog) Lookup(metric string) (MetricSpecification, bool) {
	spec, ok := c[metric]
	return spec, ok
}

// Names returns the catalog's metric names sorted
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every entry
func (c Catalog) Validate() error {
	for _, name := range c.Names() {
		if err := c[name].Validate(); err != nil {
			return fmt.Errorf("metric %s: %w", name, err)
		}
	}
	return nil
}

// Merge returns a new catalog with overrides applied on top of c
func (c Catalog) Merge(overrides Catalog) Catalog {
	merged := make(Catalog, len(c)+len(overrides))
	for name, spec := range c {
		merged[name] = spec
	}
	for name, spec := range overrides {
		merged[name] = spec
	}
	return merged
}

// GA4 metric names used by the default catalog
const (
	MetricTotalUsers             = "totalUsers"
	MetricSessions               = "sessions"
	MetricEngagedSessions        = "engagedSessions"
	MetricEventCount             = "eventCount"
	MetricScreenPageViews        = "screenPageViews"
	MetricBounceRate             = "bounceRate"
	MetricUserEngagementDuration = "userEngagementDuration"
	MetricAverageSessionDuration = "averageSessionDuration"

	// DimensionEventName is the default grouping column
	DimensionEventName = "eventName"
)

// DefaultCatalog returns the specification table for the standard GA4 metrics.
// Durations are in seconds, bounce rate in percent.
func DefaultCatalog() Catalog {
	return Catalog{
		MetricTotalUsers:             {USL: 1000, LSL: 100, Target: 500},
		MetricSessions:               {USL: 1500, LSL: 200, Target: 800},
		MetricEngagedSessions:        {USL: 1000, LSL: 150, Target: 600},
		MetricEventCount:             {USL: 5000, LSL: 500, Target: 2000},
		MetricScreenPageViews:        {USL: 3000, LSL: 300, Target: 1500},
		MetricBounceRate:             {USL: 60, LSL: 20, Target: 35},
		MetricUserEngagementDuration: {USL: 900, LSL: 60, Target: 300},
		MetricAverageSessionDuration: {USL: 600, LSL: 30, Target: 180},
	}
}

// DefaultHypothesisMetrics are the dependent variables compared across event groups
func DefaultHypothesisMetrics() []string {
	return []string{
		MetricUserEngagementDuration,
		MetricAverageSessionDuration,
		MetricBounceRate,
		MetricEventCount,
	}
}
