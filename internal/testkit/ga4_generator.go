package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"gospc/domain/dataset"
	"gospc/domain/quality"
)

// GA4GeneratorConfig configures the synthetic GA4 export generator
type GA4GeneratorConfig struct {
	Events       []string `json:"events"`
	RowsPerEvent int      `json:"rows_per_event"`
	// EventShift multiplies each event's metric means by (1 + i*EventShift),
	// so a non-zero shift makes the groups differ.
	EventShift float64 `json:"event_shift"`
	// MissingRate is the share of cells left as NaN.
	MissingRate float64 `json:"missing_rate"`
	Seed        int64   `json:"seed"`
}

// DefaultGA4Config returns a configuration producing in-spec data for every default metric
func DefaultGA4Config() GA4GeneratorConfig {
	return GA4GeneratorConfig{
		Events:       []string{"page_view", "scroll", "click", "session_start"},
		RowsPerEvent: 30,
		EventShift:   0.15,
		MissingRate:  0,
		Seed:         42,
	}
}

// ga4Profile is the (mean, relative spread) of each generated metric.
// Means sit at the default targets.
var ga4Profile = map[string][2]float64{
	quality.MetricTotalUsers:             {500, 0.08},
	quality.MetricSessions:               {800, 0.08},
	quality.MetricEngagedSessions:        {600, 0.08},
	quality.MetricEventCount:             {2000, 0.1},
	quality.MetricScreenPageViews:        {1500, 0.1},
	quality.MetricBounceRate:             {35, 0.06},
	quality.MetricUserEngagementDuration: {300, 0.1},
	quality.MetricAverageSessionDuration: {180, 0.1},
}

// GA4DataGenerator produces GA4-like tables: one row per (event, day)
type GA4DataGenerator struct {
	config GA4GeneratorConfig
	rng    *rand.Rand
}

// NewGA4DataGenerator creates a seeded generator
func NewGA4DataGenerator(config GA4GeneratorConfig) *GA4DataGenerator {
	return &GA4DataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTable builds a table with the eventName label column and all eight metrics
func (g *GA4DataGenerator) GenerateTable() (*dataset.Table, error) {
	if len(g.config.Events) == 0 || g.config.RowsPerEvent <= 0 {
		return nil, fmt.Errorf("generator needs events and a positive row count")
	}

	rows := len(g.config.Events) * g.config.RowsPerEvent
	labels := make([]string, 0, rows)
	for _, event := range g.config.Events {
		for i := 0; i < g.config.RowsPerEvent; i++ {
			labels = append(labels, event)
		}
	}

	table := dataset.NewTable("synthetic_ga4")
	if err := table.AddLabelColumn(quality.DimensionEventName, labels); err != nil {
		return nil, err
	}

	for _, metric := range quality.DefaultCatalog().Names() {
		profile := ga4Profile[metric]
		values := make([]float64, 0, rows)
		for e := range g.config.Events {
			mean := profile[0] * (1 + float64(e)*g.config.EventShift)
			for i := 0; i < g.config.RowsPerEvent; i++ {
				values = append(values, g.cell(mean, profile[1]*profile[0]))
			}
		}
		if err := table.AddColumn(metric, values); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (g *GA4DataGenerator) cell(mean, sd float64) float64 {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		return math.NaN()
	}
	v := mean + g.rng.NormFloat64()*sd
	if v <= 0 {
		v = mean * 0.01
	}
	return math.Round(v*100) / 100
}

// GA4Table is a shorthand for tests: a default table with the given seed
func GA4Table(seed int64) *dataset.Table {
	cfg := DefaultGA4Config()
	cfg.Seed = seed
	table, err := NewGA4DataGenerator(cfg).GenerateTable()
	if err != nil {
		panic(err)
	}
	return table
}
