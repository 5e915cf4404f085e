package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gospc/adapters/stats/capability"
	"gospc/adapters/stats/gage"
	"gospc/adapters/stats/hypothesis"
	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
	"gospc/domain/run"
	"gospc/internal"
	"gospc/internal/config"
	"gospc/internal/errors"
	"gospc/ports"
)

// ServiceOptions are the analysis settings shared by every run
type ServiceOptions struct {
	Alpha             float64
	Policy            quality.TestPolicy
	Workers           int
	GroupColumn       string
	HypothesisMetrics []string
	Assumptions       bool
}

// OptionsFromConfig maps the analysis configuration onto service options
func OptionsFromConfig(cfg *config.Config) ServiceOptions {
	return ServiceOptions{
		Alpha:             cfg.Analysis.Alpha,
		Policy:            cfg.TestPolicy(),
		Workers:           cfg.Analysis.Workers,
		GroupColumn:       cfg.Analysis.GroupColumn,
		HypothesisMetrics: cfg.Analysis.Metrics,
		Assumptions:       true,
	}
}

// QualityService runs the capability, Gage and hypothesis engines over
// ingested data and optionally persists the results as runs.
type QualityService struct {
	catalog quality.Catalog
	store   ports.RunStorePort // nil disables persistence
	opts    ServiceOptions
	logger  *internal.Logger
}

// NewQualityService creates the analysis service. store may be nil.
func NewQualityService(catalog quality.Catalog, store ports.RunStorePort, opts ServiceOptions) *QualityService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = quality.PolicySampleSize
	}
	return &QualityService{
		catalog: catalog,
		store:   store,
		opts:    opts,
		logger:  internal.DefaultLogger.With("QualityService"),
	}
}

// Catalog returns the specification catalog in use
func (s *QualityService) Catalog() quality.Catalog {
	return s.catalog
}

// Options returns the service settings
func (s *QualityService) Options() ServiceOptions {
	return s.opts
}

// Capability computes Cp, Cpk and Cpm for every catalog metric in the table
func (s *QualityService) Capability(ctx context.Context, table *dataset.Table) (*run.Run, error) {
	return s.execute(ctx, core.RunCapability, table, nil)
}

// Hypothesis compares the configured metrics across the group column
func (s *QualityService) Hypothesis(ctx context.Context, table *dataset.Table) (*run.Run, error) {
	if table != nil && !table.HasColumn(s.opts.GroupColumn) {
		return nil, errors.InvalidInput(fmt.Sprintf("group column %q not in table", s.opts.GroupColumn))
	}
	return s.execute(ctx, core.RunHypothesis, table, nil)
}

// Gage decomposes a measurement cube
func (s *QualityService) Gage(ctx context.Context, source string, cube dataset.MeasurementCube) (*run.Run, error) {
	start := time.Now()
	components, err := gage.Decompose(cube)
	if err != nil {
		return nil, errors.Wrap(err, "gage decomposition rejected the cube")
	}

	report := &quality.BatteryReport{
		Source: source,
		Alpha:  s.opts.Alpha,
		Policy: s.opts.Policy,
		Rows:   components.Operators * components.Parts * components.Repeats,
		Gage:   &components,
	}
	r := run.NewRun(core.RunGage, cubeHash(cube), report)
	s.logger.Info("gage run %s: %d operators x %d parts x %d repeats in %s",
		r.ID, components.Operators, components.Parts, components.Repeats, time.Since(start))
	return r, s.persist(ctx, r)
}

// Battery runs capability and hypothesis tests over the table, and a Gage
// study when a cube is given
func (s *QualityService) Battery(ctx context.Context, table *dataset.Table, cube dataset.MeasurementCube) (*run.Run, error) {
	return s.execute(ctx, core.RunBattery, table, cube)
}

func (s *QualityService) execute(ctx context.Context, kind core.RunKind, table *dataset.Table, cube dataset.MeasurementCube) (*run.Run, error) {
	if table == nil {
		return nil, errors.InvalidInput("table is required")
	}
	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid table")
	}
	start := time.Now()

	report := &quality.BatteryReport{
		Source:      table.Source,
		Period:      table.Period,
		GroupColumn: s.opts.GroupColumn,
		Alpha:       s.opts.Alpha,
		Policy:      s.opts.Policy,
		Rows:        table.RowCount(),
	}

	var capMetrics, hypMetrics []string
	if kind == core.RunCapability || kind == core.RunBattery {
		capMetrics = s.capabilityMetrics(table)
	}
	if kind == core.RunHypothesis || kind == core.RunBattery {
		hypMetrics = s.opts.HypothesisMetrics
	}
	report.Capability = make([]quality.CapabilityOutcome, len(capMetrics))
	report.Hypothesis = make([]quality.HypothesisOutcome, len(hypMetrics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, metric := range capMetrics {
		i, metric := i, metric
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sample, _ := table.GetColumnData(metric)
			report.Capability[i] = capability.Outcome(metric, sample, s.catalog)
			return nil
		})
	}
	for i, metric := range hypMetrics {
		i, metric := i, metric
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Hypothesis[i] = s.hypothesisOutcome(table, metric)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make(map[string]quality.ProcessCapabilityMetrics)
	for _, o := range report.Capability {
		s.logOutcome(o.Outcome)
		if o.Status == quality.StatusOK {
			results[o.Metric] = *o.Result
		}
	}
	for _, o := range report.Hypothesis {
		s.logOutcome(o.Outcome)
	}
	report.Pareto = capability.Pareto(results)
	if below := capability.BelowTarget(results); len(below) > 0 {
		s.logger.Info("%d metric(s) below the %.2f capability target: %v", len(below), quality.CapabilityTarget, below)
	}

	if cube != nil {
		components, err := gage.Decompose(cube)
		if err != nil {
			return nil, errors.Wrap(err, "gage decomposition rejected the cube")
		}
		report.Gage = &components
	}

	r := run.NewRun(kind, table.Fingerprint(), report)
	tally := quality.Tally(report.Outcomes())
	s.logger.Info("%s run %s over %s: %d ok, %d absent, %d error in %s",
		kind, r.ID, table.Source, tally[quality.StatusOK], tally[quality.StatusAbsent], tally[quality.StatusError], time.Since(start))

	return r, s.persist(ctx, r)
}

// capabilityMetrics lists catalog metrics present in the table, in name order
func (s *QualityService) capabilityMetrics(table *dataset.Table) []string {
	var metrics []string
	for _, name := range s.catalog.Names() {
		if table.HasColumn(name) {
			metrics = append(metrics, name)
		}
	}
	return metrics
}

func (s *QualityService) hypothesisOutcome(table *dataset.Table, metric string) quality.HypothesisOutcome {
	out := quality.HypothesisOutcome{Outcome: quality.Outcome{Metric: metric, Kind: string(core.RunHypothesis)}}

	sample, err := table.GroupBy(metric, s.opts.GroupColumn)
	if err != nil {
		out.Status = quality.StatusAbsent
		out.Reason = err.Error()
		return out
	}

	opts := []hypothesis.Option{hypothesis.WithPolicy(s.opts.Policy)}
	if s.opts.Assumptions {
		opts = append(opts, hypothesis.WithAssumptions())
	}
	result, err := hypothesis.TestGroups(sample, s.opts.Alpha, opts...)
	switch {
	case err != nil:
		// the metric exists but its groups cannot be compared
		out.Status = quality.StatusError
		out.Reason = err.Error()
	case result.Failed():
		out.Status = quality.StatusError
		out.Reason = result.Error
		out.Result = result
	default:
		out.Status = quality.StatusOK
		out.Result = result
	}
	return out
}

func (s *QualityService) logOutcome(o quality.Outcome) {
	switch o.Status {
	case quality.StatusAbsent:
		s.logger.Warn("%s %s absent: %s", o.Kind, o.Metric, o.Reason)
	case quality.StatusError:
		s.logger.Error("%s %s failed: %s", o.Kind, o.Metric, o.Reason)
	default:
		s.logger.Debug("%s %s ok", o.Kind, o.Metric)
	}
}

func (s *QualityService) persist(ctx context.Context, r *run.Run) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveRun(ctx, r); err != nil {
		s.logger.Error("failed to persist run %s: %v", r.ID, err)
		return errors.DatabaseError("failed to persist run", err)
	}
	s.logger.Debug("persisted run %s (%s)", r.ID, r.Fingerprint.Short())
	return nil
}

// GetRun loads a stored run
func (s *QualityService) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	if s.store == nil {
		return nil, errors.NotFound("run store")
	}
	return s.store.GetRun(ctx, id)
}

// ListRuns lists stored runs
func (s *QualityService) ListRuns(ctx context.Context, filters ports.RunFilters) ([]ports.RunSummary, error) {
	if s.store == nil {
		return nil, errors.NotFound("run store")
	}
	return s.store.ListRuns(ctx, filters)
}

// HasStore reports whether runs are persisted
func (s *QualityService) HasStore() bool {
	return s.store != nil
}

func cubeHash(cube dataset.MeasurementCube) core.Hash {
	ops, parts, reps := cube.Shape()
	var flat []float64
	for o := range cube {
		for p := range cube[o] {
			flat = append(flat, cube[o][p]...)
		}
	}
	return core.ComputeColumnsHash(map[string][]float64{
		fmt.Sprintf("cube/%dx%dx%d", ops, parts, reps): flat,
	})
}
