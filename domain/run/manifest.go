package run

import (
	"fmt"
	"strconv"

	"gospc/domain/core"
	"gospc/domain/quality"
)

// Run is a persisted analysis invocation. The fingerprint identifies the
// inputs, so two runs over the same data with the same settings share it.
type Run struct {
	ID          core.RunID             `json:"id"`
	Kind        core.RunKind           `json:"kind"`
	Source      string                 `json:"source"`
	DatasetHash core.Hash              `json:"dataset_hash"`
	Fingerprint core.Hash              `json:"fingerprint"`
	CreatedAt   core.Timestamp         `json:"created_at"`
	Report      *quality.BatteryReport `json:"report,omitempty"`
}

// NewRun creates a run record for a report
func NewRun(kind core.RunKind, datasetHash core.Hash, report *quality.BatteryReport) *Run {
	r := &Run{
		ID:          core.NewRunID(),
		Kind:        kind,
		DatasetHash: datasetHash,
		CreatedAt:   core.Now(),
		Report:      report,
	}
	if report != nil {
		r.Source = report.Source
		r.Fingerprint = Fingerprint(datasetHash, report.Alpha, report.Policy, report.GroupColumn)
	}
	return r
}

// Fingerprint hashes the inputs that determine a run's results
func Fingerprint(datasetHash core.Hash, alpha float64, policy quality.TestPolicy, groupColumn string) core.Hash {
	key := fmt.Sprintf("%s|%s|%s|%s",
		datasetHash, strconv.FormatFloat(alpha, 'g', -1, 64), policy, groupColumn)
	return core.NewHash([]byte(key))
}

// Validate checks if the run is complete
func (r *Run) Validate() error {
	if core.ID(r.ID).IsEmpty() {
		return core.NewValidationError("run", "id cannot be empty")
	}
	if r.Kind == "" {
		return core.NewValidationError("run", "kind cannot be empty")
	}
	if r.DatasetHash.IsEmpty() {
		return core.NewValidationError("run", "dataset_hash cannot be empty")
	}
	if r.Report == nil {
		return core.NewValidationError("run", "report cannot be empty")
	}
	return nil
}
