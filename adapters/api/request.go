package api

import (
	"gohstat/adapters/model"
	"gohstat/app"
	"gohstat/domain/dataset"
	"gohstat/internal/errors"
)

// toComputeRequest builds the frame and the model described by the request
func (req InteractionRequest) toComputeRequest() (app.ComputeRequest, error) {
	if req.Model == nil {
		return app.ComputeRequest{}, errors.InvalidInput("model is required")
	}
	if len(req.Rows) == 0 {
		return app.ComputeRequest{}, errors.InvalidInput("rows are required")
	}
	if req.Features != nil && req.FeatureIndices != nil {
		return app.ComputeRequest{}, errors.InvalidInput("give either features or feature_indices, not both")
	}

	frame := dataset.NewFrame(req.Columns, req.Rows)
	if req.Model.Kind == "" {
		req.Model.Kind = model.KindLinear
	}
	m, err := req.Model.Build(frame.Columns)
	if err != nil {
		return app.ComputeRequest{}, errors.InvalidInput("invalid model: " + err.Error())
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	return app.ComputeRequest{
		Frame:          frame,
		Model:          m,
		ModelKind:      req.Model.Kind,
		Source:         source,
		FeatureNames:   req.Features,
		FeatureIndices: req.FeatureIndices,
		NMax:           req.NMax,
		Seed:           req.Seed,
		Eps:            req.Eps,
		Workers:        req.Workers,
		SampleWeight:   req.SampleWeight,
		Persist:        req.Persist,
	}, nil
}
