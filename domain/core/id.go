package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID identifies one interaction-statistic computation
type RunID uuid.UUID

// NewRunID creates a new unique identifier using UUID v7 for time-ordered generation
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return RunID(id)
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RunID{}, fmt.Errorf("run ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, fmt.Errorf("invalid run ID %q: %w", s, err)
	}
	return RunID(id), nil
}

// UUID returns the underlying uuid
func (id RunID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// String returns the string representation
func (id RunID) String() string {
	return uuid.UUID(id).String()
}

// IsEmpty checks if the ID is empty
func (id RunID) IsEmpty() bool {
	return uuid.UUID(id) == uuid.Nil
}
