package api

import (
	"gohstat/adapters/model"
	"gohstat/models"
)

// InteractionRequest is the body of POST /api/v1/interactions
type InteractionRequest struct {
	Columns        []string    `json:"columns"`
	Rows           [][]any     `json:"rows"`
	Model          *model.Spec `json:"model"`
	Features       []string    `json:"features,omitempty"`
	FeatureIndices []int       `json:"feature_indices,omitempty"`
	NMax           *int        `json:"n_max,omitempty"`
	Seed           *uint64     `json:"seed,omitempty"`
	SampleWeight   []float64   `json:"sample_weight,omitempty"`
	Eps            *float64    `json:"eps,omitempty"`
	Workers        *int        `json:"workers,omitempty"`
	Persist        bool        `json:"persist,omitempty"`
	Source         string      `json:"source,omitempty"`
}

// RunListResponse is the body of GET /api/v1/runs
type RunListResponse struct {
	Runs []*models.InteractionRun `json:"runs"`
}

// ErrorResponse carries an application error code and message
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status      string `json:"status"`
	Persistence bool   `json:"persistence"`
}
