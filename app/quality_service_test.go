package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/quality"
	"gospc/domain/run"
	apperrors "gospc/internal/errors"
	"gospc/internal/testkit"
	"gospc/ports"
)

// MockRunStore is a testify mock of RunStorePort
type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) SaveRun(ctx context.Context, r *run.Run) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRunStore) GetRun(ctx context.Context, id core.RunID) (*run.Run, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*run.Run); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRunStore) ListRuns(ctx context.Context, filters ports.RunFilters) ([]ports.RunSummary, error) {
	args := m.Called(ctx, filters)
	if s, ok := args.Get(0).([]ports.RunSummary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func defaultOptions() ServiceOptions {
	return ServiceOptions{
		Alpha:             0.05,
		Policy:            quality.PolicySampleSize,
		Workers:           3,
		GroupColumn:       quality.DimensionEventName,
		HypothesisMetrics: quality.DefaultHypothesisMetrics(),
		Assumptions:       true,
	}
}

func TestQualityService_Battery(t *testing.T) {
	store := &MockRunStore{}
	store.On("SaveRun", mock.Anything, mock.AnythingOfType("*run.Run")).Return(nil).Once()

	svc := NewQualityService(quality.DefaultCatalog(), store, defaultOptions())
	r, err := svc.Battery(context.Background(), testkit.GA4Table(3), testkit.GenerateCube(testkit.DefaultGageConfig()))
	require.NoError(t, err)
	store.AssertExpectations(t)

	assert.Equal(t, core.RunBattery, r.Kind)
	assert.False(t, r.Fingerprint.IsEmpty())
	report := r.Report
	require.Len(t, report.Capability, 8)
	require.Len(t, report.Hypothesis, 4)
	assert.Len(t, report.Pareto, 8)
	require.NotNil(t, report.Gage)

	for i, o := range report.Capability {
		assert.Equal(t, quality.StatusOK, o.Status, o.Metric)
		if i > 0 {
			assert.Less(t, report.Capability[i-1].Metric, o.Metric, "slots keep catalog order")
		}
	}
	for i, o := range report.Hypothesis {
		assert.Equal(t, quality.DefaultHypothesisMetrics()[i], o.Metric)
		assert.Equal(t, quality.StatusOK, o.Status, o.Reason)
		require.NotNil(t, o.Result)
		assert.Equal(t, quality.TestANOVA, o.Result.Test)
		assert.NotNil(t, o.Result.Assumptions)
	}
	assert.Equal(t, 12, quality.Tally(report.Outcomes())[quality.StatusOK])
}

func TestQualityService_Deterministic(t *testing.T) {
	svc := NewQualityService(quality.DefaultCatalog(), nil, defaultOptions())

	a, err := svc.Capability(context.Background(), testkit.GA4Table(5))
	require.NoError(t, err)
	b, err := svc.Capability(context.Background(), testkit.GA4Table(5))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, a.Report.Capability, b.Report.Capability)
	assert.Empty(t, a.Report.Hypothesis)
}

func TestQualityService_AbsentAndErrorOutcomes(t *testing.T) {
	table := dataset.NewTable("constant.csv")
	require.NoError(t, table.AddLabelColumn(quality.DimensionEventName, []string{"a", "a", "b", "b"}))
	require.NoError(t, table.AddColumn(quality.MetricBounceRate, []float64{40, 40, 40, 40}))
	require.NoError(t, table.AddColumn(quality.MetricSessions, []float64{0, 0, 0, 500}))
	require.NoError(t, table.AddColumn("scrolls", []float64{3, 5, math.NaN(), math.NaN()}))

	opts := defaultOptions()
	opts.HypothesisMetrics = []string{quality.MetricBounceRate, quality.MetricEventCount, "scrolls"}
	svc := NewQualityService(quality.DefaultCatalog(), nil, opts)

	r, err := svc.Battery(context.Background(), table, nil)
	require.NoError(t, err)
	report := r.Report

	require.Len(t, report.Capability, 2)
	for _, o := range report.Capability {
		assert.Equal(t, quality.StatusAbsent, o.Status, o.Metric)
		assert.Nil(t, o.Result)
		assert.NotEmpty(t, o.Reason)
	}
	assert.Empty(t, report.Pareto)

	require.Len(t, report.Hypothesis, 3)
	assert.Equal(t, quality.StatusError, report.Hypothesis[0].Status)
	assert.Contains(t, report.Hypothesis[0].Reason, "Error in ANOVA test")
	assert.Equal(t, quality.StatusAbsent, report.Hypothesis[1].Status, "metric not in table")
	single := report.Hypothesis[2]
	assert.Equal(t, quality.StatusError, single.Status, "one group left after cleaning")
	assert.Contains(t, single.Reason, "fewer than 2 distinct groups")
	assert.Nil(t, single.Result)
	assert.Nil(t, report.Gage)

	tally := quality.Tally(report.Outcomes())
	assert.Equal(t, 2, tally[quality.StatusError])
	assert.Equal(t, 3, tally[quality.StatusAbsent])
}

func TestQualityService_InputErrors(t *testing.T) {
	svc := NewQualityService(quality.DefaultCatalog(), nil, defaultOptions())
	ctx := context.Background()

	_, err := svc.Capability(ctx, nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, err = svc.Capability(ctx, dataset.NewTable("empty"))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	noGroups := dataset.NewTable("x")
	require.NoError(t, noGroups.AddColumn(quality.MetricSessions, []float64{1, 2, 3}))
	_, err = svc.Hypothesis(ctx, noGroups)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, err = svc.Gage(ctx, "gage.csv", dataset.MeasurementCube{{{1, 2}}, {{1}}})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestQualityService_Gage(t *testing.T) {
	svc := NewQualityService(quality.DefaultCatalog(), nil, defaultOptions())

	r, err := svc.Gage(context.Background(), "gage.csv", testkit.ConstantCube(2, 3, 2, 7.5))
	require.NoError(t, err)
	assert.Equal(t, core.RunGage, r.Kind)
	assert.Equal(t, [4]float64{}, r.Report.Gage.Variances)
	assert.Equal(t, 12, r.Report.Rows)
}

func TestQualityService_Cancelled(t *testing.T) {
	svc := NewQualityService(quality.DefaultCatalog(), nil, defaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Battery(ctx, testkit.GA4Table(1), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQualityService_StoreFailure(t *testing.T) {
	store := &MockRunStore{}
	store.On("SaveRun", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := NewQualityService(quality.DefaultCatalog(), store, defaultOptions())
	r, err := svc.Capability(context.Background(), testkit.GA4Table(2))
	require.Error(t, err)
	assert.NotNil(t, r, "results are returned even when persistence fails")
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
}

func TestQualityService_RunLookup(t *testing.T) {
	ctx := context.Background()

	noStore := NewQualityService(quality.DefaultCatalog(), nil, defaultOptions())
	_, err := noStore.GetRun(ctx, core.NewRunID())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.False(t, noStore.HasStore())

	store := &MockRunStore{}
	id := core.NewRunID()
	store.On("GetRun", mock.Anything, id).Return(&run.Run{ID: id}, nil)
	store.On("ListRuns", mock.Anything, ports.RunFilters{Limit: 5}).Return([]ports.RunSummary{{ID: id}}, nil)

	svc := NewQualityService(quality.DefaultCatalog(), store, defaultOptions())
	got, err := svc.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	list, err := svc.ListRuns(ctx, ports.RunFilters{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
