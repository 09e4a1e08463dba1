package model

import (
	"context"

	"gohstat/domain/dataset"

	"gonum.org/v1/gonum/mat"
)

// RegressorFunc adapts a row function to ports.Regressor
type RegressorFunc func(row []any) float64

// Predict applies f to every row
func (f RegressorFunc) Predict(ctx context.Context, X *dataset.Frame) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds := make([]float64, len(X.Rows))
	for i, row := range X.Rows {
		preds[i] = f(row)
	}
	return preds, nil
}

// MultiOutputFunc adapts a row function with d outputs to ports.MultiOutputRegressor
type MultiOutputFunc struct {
	Outputs int
	F       func(row []any, out []float64)
}

// PredictMulti applies F to every row
func (m MultiOutputFunc) PredictMulti(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds := mat.NewDense(len(X.Rows), m.Outputs, nil)
	for i, row := range X.Rows {
		m.F(row, preds.RawRowView(i))
	}
	return preds, nil
}

// ClassifierFunc adapts a row function returning class probabilities to ports.Classifier
type ClassifierFunc struct {
	Classes int
	F       func(row []any, probs []float64)
}

// PredictProba applies F to every row
func (c ClassifierFunc) PredictProba(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	probs := mat.NewDense(len(X.Rows), c.Classes, nil)
	for i, row := range X.Rows {
		c.F(row, probs.RawRowView(i))
	}
	return probs, nil
}
