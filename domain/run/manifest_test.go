package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gospc/domain/core"
	"gospc/domain/quality"
)

func TestFingerprint_Deterministic(t *testing.T) {
	hash := core.NewHash([]byte("dataset"))

	fp1 := Fingerprint(hash, 0.05, quality.PolicySampleSize, "eventName")
	fp2 := Fingerprint(hash, 0.05, quality.PolicySampleSize, "eventName")
	assert.Equal(t, fp1, fp2)

	assert.NotEqual(t, fp1, Fingerprint(hash, 0.01, quality.PolicySampleSize, "eventName"))
	assert.NotEqual(t, fp1, Fingerprint(hash, 0.05, quality.PolicyAlwaysNonParametric, "eventName"))
	assert.NotEqual(t, fp1, Fingerprint(hash, 0.05, quality.PolicySampleSize, "pagePath"))
}

func TestNewRun(t *testing.T) {
	report := &quality.BatteryReport{Source: "ga4.json", Alpha: 0.05, Policy: quality.PolicySampleSize, GroupColumn: "eventName"}
	r := NewRun(core.RunBattery, core.NewHash([]byte("x")), report)

	require.NoError(t, r.Validate())
	assert.Equal(t, "ga4.json", r.Source)
	assert.False(t, r.Fingerprint.IsEmpty())
	assert.False(t, r.CreatedAt.IsZero())

	empty := &Run{}
	err := empty.Validate()
	require.Error(t, err)
	assert.True(t, core.IsInputError(err))
}
