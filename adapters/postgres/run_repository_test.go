package postgres

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gospc/adapters/postgres/migrations"
	"gospc/domain/core"
	"gospc/domain/quality"
	"gospc/domain/run"
	"gospc/ports"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Connect(ctx, DriverSQLite, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	applied, err := migrations.NewMigrator(db).Up(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"001"}, applied)
	return db
}

func newRun(kind core.RunKind, source string, created time.Time) *run.Run {
	report := &quality.BatteryReport{
		Source: source,
		Alpha:  0.05,
		Policy: quality.PolicySampleSize,
		Capability: []quality.CapabilityOutcome{{
			Outcome: quality.Outcome{Metric: "sessions", Kind: "capability", Status: quality.StatusOK},
			Result:  &quality.ProcessCapabilityMetrics{Metric: "sessions", Cp: 1.5, Cpk: 1.2, Cpm: 1.1, N: 30},
		}},
	}
	r := run.NewRun(kind, core.NewHash([]byte(source)), report)
	r.CreatedAt = core.NewTimestamp(created)
	return r
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(context.Background(), "mysql", "x")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrator_Idempotent(t *testing.T) {
	db := newTestDB(t)
	m := migrations.NewMigrator(db)

	again, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].Applied)
	assert.Equal(t, "001_analysis_runs.sql", status[0].Name)
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(newTestDB(t))

	r := newRun(core.RunCapability, "ga4.csv", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveRun(ctx, r))

	got, err := repo.GetRun(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Fingerprint, got.Fingerprint)
	assert.Equal(t, r.Kind, got.Kind)
	assert.True(t, r.CreatedAt.Time().Equal(got.CreatedAt.Time()))
	require.NotNil(t, got.Report)
	require.Len(t, got.Report.Capability, 1)
	assert.Equal(t, 1.5, got.Report.Capability[0].Result.Cp)

	assert.Error(t, repo.SaveRun(ctx, r), "runs are immutable")

	_, err = repo.GetRun(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))
}

func TestRunRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(newTestDB(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := newRun(core.RunCapability, "a.csv", base)
	newer := newRun(core.RunBattery, "b.csv", base.Add(time.Hour))
	require.NoError(t, repo.SaveRun(ctx, older))
	require.NoError(t, repo.SaveRun(ctx, newer))

	all, err := repo.ListRuns(ctx, ports.RunFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	kind := core.RunCapability
	filtered, err := repo.ListRuns(ctx, ports.RunFilters{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, older.ID, filtered[0].ID)

	bySource, err := repo.ListRuns(ctx, ports.RunFilters{Source: "b.csv"})
	require.NoError(t, err)
	require.Len(t, bySource, 1)

	paged, err := repo.ListRuns(ctx, ports.RunFilters{Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, older.ID, paged[0].ID)

	limited, err := repo.ListRuns(ctx, ports.RunFilters{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
