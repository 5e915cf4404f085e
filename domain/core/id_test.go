package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	generated := NewRunID()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"generated id", generated.String(), false},
		{"padded id", "  " + generated.String() + " ", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"not a uuid", "run-42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

// TestParseMetricName tests metric name parsing
func TestParseMetricName(t *testing.T) {
	name, err := ParseMetricName("bounceRate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name.String() != "bounceRate" {
		t.Errorf("Expected bounceRate, got %s", name)
	}

	if _, err := ParseMetricName(" "); err == nil {
		t.Error("Expected error for blank metric name")
	}
}
