package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionRun records one H-statistic computation
type InteractionRun struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Source    string    `json:"source" db:"source"` // data file name or "api"
	ModelKind string    `json:"model_kind" db:"model_kind"`
	RowCount  int       `json:"row_count" db:"row_count"`
	RowsUsed  int       `json:"rows_used" db:"rows_used"`
	NMax      int       `json:"n_max" db:"n_max"`
	Seed      *int64    `json:"seed,omitempty" db:"seed"`
	Eps       float64   `json:"eps" db:"eps"`
	OutputDim int       `json:"output_dim" db:"output_dim"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Pairs []PairRecord `json:"pairs,omitempty" db:"-"`
}

// PairRecord is the statistic of one feature pair for one model output
type PairRecord struct {
	RunID       uuid.UUID `json:"run_id" db:"run_id"`
	Position    int       `json:"position" db:"position"` // enumeration order of the pair
	FeatureA    string    `json:"feature_a" db:"feature_a"`
	FeatureB    string    `json:"feature_b" db:"feature_b"`
	Output      int       `json:"output" db:"output"`
	HSquared    float64   `json:"h_squared" db:"h_squared"`
	Numerator   float64   `json:"numerator" db:"numerator"`
	Denominator float64   `json:"denominator" db:"denominator"`
}

// PairCount returns the number of distinct pairs in the run
func (r *InteractionRun) PairCount() int {
	if r.OutputDim < 1 {
		return len(r.Pairs)
	}
	return len(r.Pairs) / r.OutputDim
}

// Strongest returns the record with the largest H squared, or nil without pairs
func (r *InteractionRun) Strongest() *PairRecord {
	var best *PairRecord
	for i := range r.Pairs {
		if best == nil || r.Pairs[i].HSquared > best.HSquared {
			best = &r.Pairs[i]
		}
	}
	return best
}
