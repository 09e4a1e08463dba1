package core

import (
	"errors"
	"testing"
)

// TestNewRunIDUniqueness tests that NewRunID generates unique identifiers
func TestNewRunIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[RunID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewRunID()
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

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	valid := NewRunID()

	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + " ", valid, false},
		{"", RunID{}, true},
		{"   ", RunID{}, true},
		{"not-a-uuid", RunID{}, true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for input %q", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for input %q: %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestErrorClassification tests the error checking helpers
func TestErrorClassification(t *testing.T) {
	if !IsValidationError(NewWeightsError("length %d != %d", 3, 4)) {
		t.Error("Expected weights error to be a validation error")
	}
	if !IsValidationError(NewFeatureSpecError("unknown feature %q", "x9")) {
		t.Error("Expected feature spec error to be a validation error")
	}
	if !IsModelError(NewPredictionShapeError(10, 9)) {
		t.Error("Expected prediction shape error to be a model error")
	}
	if !errors.Is(ErrRunNotFound, ErrNotFound) || !IsNotFoundError(ErrRunNotFound) {
		t.Error("Expected run not found to match ErrNotFound")
	}
	if IsValidationError(ErrNotFitted) {
		t.Error("ErrNotFitted is not a validation error")
	}
}
