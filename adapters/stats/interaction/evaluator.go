package interaction

import (
	"context"
	"fmt"
	"math"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/ports"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// batchPredictor evaluates a model on a batch of rows and returns an n x d matrix
type batchPredictor func(ctx context.Context, X *dataset.Frame) (*mat.Dense, error)

// checkFitted fails with ErrNotFitted when the model reports it is not fitted
func checkFitted(model any) error {
	if f, ok := model.(ports.Fittable); ok && !f.IsFitted() {
		return fmt.Errorf("%w: %T", core.ErrNotFitted, model)
	}
	return nil
}

// resolvePredictor inspects the model capabilities once. Plain regressors win
// over multi-output regressors, which win over classifiers.
func resolvePredictor(model any) (batchPredictor, error) {
	switch m := model.(type) {
	case nil:
		return nil, fmt.Errorf("%w: model is nil", core.ErrUnsupportedModel)

	case ports.Regressor:
		return func(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
			preds, err := m.Predict(ctx, X)
			if err != nil {
				return nil, err
			}
			if len(preds) != X.RowCount() {
				return nil, core.NewPredictionShapeError(X.RowCount(), len(preds))
			}
			if err := checkFinite(preds); err != nil {
				return nil, err
			}
			return mat.NewDense(len(preds), 1, preds), nil
		}, nil

	case ports.MultiOutputRegressor:
		return func(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
			preds, err := m.PredictMulti(ctx, X)
			if err != nil {
				return nil, err
			}
			if err := checkRows(preds, X.RowCount()); err != nil {
				return nil, err
			}
			if err := checkFiniteMatrix(preds); err != nil {
				return nil, err
			}
			return preds, nil
		}, nil

	case ports.Classifier:
		return func(ctx context.Context, X *dataset.Frame) (*mat.Dense, error) {
			probs, err := m.PredictProba(ctx, X)
			if err != nil {
				return nil, err
			}
			if err := checkRows(probs, X.RowCount()); err != nil {
				return nil, err
			}
			if err := checkFiniteMatrix(probs); err != nil {
				return nil, err
			}
			// Binary classification: keep the positive class only
			if r, c := probs.Dims(); c == 2 {
				return mat.NewDense(r, 1, mat.Col(nil, 1, probs)), nil
			}
			return probs, nil
		}, nil
	}

	return nil, fmt.Errorf("%w: %T", core.ErrUnsupportedModel, model)
}

func checkRows(m *mat.Dense, want int) error {
	if m == nil {
		return core.NewPredictionShapeError(want, 0)
	}
	r, c := m.Dims()
	if r != want {
		return core.NewPredictionShapeError(want, r)
	}
	if c == 0 {
		return fmt.Errorf("%w: prediction has no outputs", core.ErrPredictionShape)
	}
	return nil
}

// checkFinite rejects NaN and infinite predictions, which would turn every
// statistic they touch into NaN
func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: prediction %d is %v", core.ErrPredictionShape, i, v)
		}
	}
	return nil
}

func checkFiniteMatrix(m *mat.Dense) error {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		if err := checkFinite(m.RawRowView(i)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// evaluateGrid returns the weighted average prediction over all rows of X for
// every grid point, with the feature columns overwritten by that point.
// The model is called once on the n*g stacked rows; the result is g x d.
func evaluateGrid(ctx context.Context, predict batchPredictor, X *dataset.Frame, features []int, grid [][]any, weights []float64) (*mat.Dense, error) {
	n, p, g := X.RowCount(), X.ColumnCount(), len(grid)

	cells := make([]any, n*g*p)
	rows := make([][]any, n*g)
	for b, point := range grid {
		for i, src := range X.Rows {
			r := b*n + i
			row := cells[r*p : (r+1)*p : (r+1)*p]
			copy(row, src)
			for k, j := range features {
				row[j] = point[k]
			}
			rows[r] = row
		}
	}

	preds, err := predict(ctx, &dataset.Frame{Columns: X.Columns, Rows: rows})
	if err != nil {
		return nil, err
	}

	_, d := preds.Dims()
	out := mat.NewDense(g, d, nil)
	block := make([]float64, n)
	for b := 0; b < g; b++ {
		for c := 0; c < d; c++ {
			for i := range block {
				block[i] = preds.At(b*n+i, c)
			}
			out.Set(b, c, stat.Mean(block, weights))
		}
	}
	return out, nil
}
