package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID      ID
	MetricName ID
)

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID { return RunID(NewID()) }

// String conversions for domain IDs
func (id RunID) String() string      { return ID(id).String() }
func (id MetricName) String() string { return ID(id).String() }

// ParseRunID parses a string into RunID. Only UUIDs are accepted.
func ParseRunID(s string) (RunID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("run ID %q is not a UUID: %w", s, err)
	}
	return RunID(s), nil
}

// ParseMetricName parses a string into MetricName
func ParseMetricName(s string) (MetricName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("metric name cannot be empty")
	}
	return MetricName(s), nil
}

// RunKind identifies which analysis produced a run
type RunKind string

const (
	RunCapability RunKind = "capability"
	RunGage       RunKind = "gage"
	RunHypothesis RunKind = "hypothesis"
	RunBattery    RunKind = "battery"
)
