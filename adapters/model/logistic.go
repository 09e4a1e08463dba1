package model

import (
	"context"
	"math"

	"gohstat/domain/dataset"

	"gonum.org/v1/gonum/mat"
)

// LogisticModel is a binary classifier with a linear predictor on the logit scale
type LogisticModel struct {
	Linear *LinearModel
}

// NewLogisticModel creates a fitted binary classifier
func NewLogisticModel(intercept float64, terms ...Term) *LogisticModel {
	return &LogisticModel{Linear: NewLinearModel(intercept, terms...)}
}

// IsFitted reports whether the underlying linear predictor is fitted
func (m *LogisticModel) IsFitted() bool {
	return m.Linear != nil && m.Linear.IsFitted()
}

// PredictProba returns P(y=0) and P(y=1) per row
func (m *LogisticModel) PredictProba(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
	logits, err := m.Linear.Predict(ctx, X)
	if err != nil {
		return nil, err
	}
	probs := mat.NewDense(len(logits), 2, nil)
	for i, z := range logits {
		p := 1 / (1 + math.Exp(-z))
		probs.Set(i, 0, 1-p)
		probs.Set(i, 1, p)
	}
	return probs, nil
}
