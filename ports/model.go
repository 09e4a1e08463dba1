package ports

import (
	"context"

	"gohstat/domain/dataset"

	"gonum.org/v1/gonum/mat"
)

// Fittable is implemented by models that can report whether they were fitted.
// Models that do not implement it are assumed to be fitted.
type Fittable interface {
	IsFitted() bool
}

// Regressor predicts one value per row
type Regressor interface {
	Predict(ctx context.Context, X *dataset.Frame) ([]float64, error)
}

// MultiOutputRegressor predicts a vector per row, returned as an n x d matrix
type MultiOutputRegressor interface {
	PredictMulti(ctx context.Context, X *dataset.Frame) (*mat.Dense, error)
}

// Classifier predicts class probabilities, one column per class
type Classifier interface {
	PredictProba(ctx context.Context, X *dataset.Frame) (*mat.Dense, error)
}
