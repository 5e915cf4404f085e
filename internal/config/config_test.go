package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gospc/domain/quality"
	"gospc/internal/errors"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, quality.PolicySampleSize, cfg.TestPolicy())
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "eventName", cfg.Analysis.GroupColumn)
	assert.Equal(t, quality.DefaultHypothesisMetrics(), cfg.Analysis.Metrics)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "spc_report", cfg.Report.OutputDir)
	assert.False(t, cfg.Database.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SPC_ALPHA", "0.01")
	t.Setenv("SPC_TEST_POLICY", "nonparametric")
	t.Setenv("SPC_WORKERS", "8")
	t.Setenv("SPC_METRICS", "sessions, bounceRate,")
	t.Setenv("SPC_REPORT_FORMATS", "xlsx,json")
	t.Setenv("REPORT_SCHEDULE", "0 9 * * 1-5")
	t.Setenv("DATABASE_URL", "postgres://spc@localhost/spc?sslmode=disable")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, quality.PolicyAlwaysNonParametric, cfg.TestPolicy())
	assert.Equal(t, []string{"sessions", "bounceRate"}, cfg.Analysis.Metrics)
	assert.Equal(t, []string{"xlsx", "json"}, cfg.Report.Formats)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.Enabled())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SPC_ALPHA", "1.5"},
		{"SPC_TEST_POLICY", "bayesian"},
		{"SPC_WORKERS", "0"},
		{"GIN_MODE", "verbose"},
		{"REPORT_SCHEDULE", "every day"},
		{"SPC_REPORT_FORMATS", "pdf"},
		{"PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "", DriverFor(""))
	assert.Equal(t, "postgres", DriverFor("postgresql://localhost/spc"))
	assert.Equal(t, "postgres", DriverFor("host=localhost dbname=spc"))
	assert.Equal(t, "sqlite3", DriverFor("file:runs.db?cache=shared"))
}

func TestParseCatalog(t *testing.T) {
	catalog, err := ParseCatalog([]byte(`
metrics:
  sessions: {usl: 2000, lsl: 100, target: 900}
  conversions:
    usl: 50
    lsl: 1
    target: 20
`))
	require.NoError(t, err)
	assert.Equal(t, quality.MetricSpecification{USL: 2000, LSL: 100, Target: 900}, catalog["sessions"])
	assert.Equal(t, 20.0, catalog["conversions"].Target)

	_, err = ParseCatalog([]byte("metrics:\n  sessions: {usl: 1, lsl: 5, target: 3}\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = ParseCatalog([]byte("metrics: {}\n"))
	assert.Error(t, err)
}

func TestCatalogFromSpecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specs.yaml")
	data, err := MarshalCatalog(quality.Catalog{"sessions": {USL: 10, LSL: 1, Target: 5}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("SPC_SPEC_FILE", path)
	cfg, err := FromEnv()
	require.NoError(t, err)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 8)
	assert.Equal(t, 10.0, catalog["sessions"].USL)
}
