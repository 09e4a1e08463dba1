package model

import (
	"context"
	"fmt"
	"math"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/ports"
)

// LogRegressor evaluates a fitted regressor on the log scale
type LogRegressor struct {
	estimator ports.Regressor
}

// NewLogRegressor wraps a fitted regressor
func NewLogRegressor(estimator ports.Regressor) (*LogRegressor, error) {
	if estimator == nil {
		return nil, fmt.Errorf("%w: nil estimator", core.ErrUnsupportedModel)
	}
	if f, ok := estimator.(ports.Fittable); ok && !f.IsFitted() {
		return nil, fmt.Errorf("%w: %T", core.ErrNotFitted, estimator)
	}
	return &LogRegressor{estimator: estimator}, nil
}

// IsFitted is always true, fitting was checked at construction
func (r *LogRegressor) IsFitted() bool {
	return true
}

// Predict returns the natural log of the wrapped predictions
func (r *LogRegressor) Predict(ctx context.Context, X *dataset.Frame) ([]float64, error) {
	preds, err := r.estimator.Predict(ctx, X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = math.Log(p)
	}
	return out, nil
}

// ExpRegressor exponentiates a linear predictor, the mean of a log-link
// model such as a Poisson GLM
type ExpRegressor struct {
	Linear *LinearModel
}

// IsFitted reports whether the linear predictor is fitted
func (r *ExpRegressor) IsFitted() bool {
	return r.Linear != nil && r.Linear.IsFitted()
}

// Predict returns exp of the linear predictor
func (r *ExpRegressor) Predict(ctx context.Context, X *dataset.Frame) ([]float64, error) {
	if !r.IsFitted() {
		return nil, fmt.Errorf("%w: %T", core.ErrNotFitted, r)
	}
	preds, err := r.Linear.Predict(ctx, X)
	if err != nil {
		return nil, err
	}
	for i, p := range preds {
		preds[i] = math.Exp(p)
	}
	return preds, nil
}
