package interaction

import (
	"context"
	"fmt"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/internal"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PartialDependence returns the centered partial dependence of the model on
// the given feature columns, evaluated at every row of X. The result is
// n x d with a weighted column mean of zero.
func PartialDependence(ctx context.Context, model any, X *dataset.Frame, features []int, weights []float64) (*mat.Dense, error) {
	if err := checkFitted(model); err != nil {
		return nil, err
	}
	predict, err := resolvePredictor(model)
	if err != nil {
		return nil, err
	}
	if err := X.Validate(); err != nil {
		return nil, err
	}
	if err := validateWeights(weights, X.RowCount()); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, core.NewFeatureSpecError("no features given")
	}
	for _, j := range features {
		if j < 0 || j >= X.ColumnCount() {
			return nil, core.NewFeatureSpecError("column index %d out of range [0, %d)", j, X.ColumnCount())
		}
	}
	return pdOverData(ctx, predict, X, features, weights, internal.NopLogger())
}

// pdOverData computes the centered partial dependence over the data distribution
func pdOverData(ctx context.Context, predict batchPredictor, X *dataset.Frame, features []int, weights []float64, logger *internal.Logger) (*mat.Dense, error) {
	raw := X.SelectColumns(features)

	// Grid compression is skipped when the columns cannot be ordered
	grid, err := uniqueRows(raw)
	deduplicated := err == nil
	if !deduplicated {
		logger.Debug("grid compression skipped for features %v: %v", features, err)
		grid = identityGrid(raw)
	} else if grid.compressed() {
		logger.Trace("grid for features %v compressed from %d to %d points", features, len(raw), len(grid.points))
	}

	values, err := evaluateGrid(ctx, predict, X, features, grid.points, weights)
	if err != nil {
		return nil, fmt.Errorf("evaluating grid for features %v: %w", features, err)
	}

	pd := values
	if deduplicated {
		_, d := values.Dims()
		pd = mat.NewDense(len(grid.inverse), d, nil)
		for i, g := range grid.inverse {
			pd.SetRow(i, values.RawRowView(g))
		}
	}

	center(pd, weights)
	return pd, nil
}

// center subtracts the weighted column means
func center(pd *mat.Dense, weights []float64) {
	n, d := pd.Dims()
	col := make([]float64, n)
	for c := 0; c < d; c++ {
		mat.Col(col, c, pd)
		mean := stat.Mean(col, weights)
		for i := 0; i < n; i++ {
			pd.Set(i, c, col[i]-mean)
		}
	}
}
