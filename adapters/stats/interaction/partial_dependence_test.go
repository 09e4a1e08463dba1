package interaction

import (
	"context"
	"errors"
	"testing"

	"gohstat/adapters/model"
	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/internal"
	"gohstat/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func productModel() *model.LinearModel {
	return model.NewLinearModel(0.5,
		model.Term{Features: []int{0}, Coefficient: 1},
		model.Term{Features: []int{1}, Coefficient: 2},
		model.Term{Features: []int{0, 1}, Coefficient: 3},
	)
}

func assertCentered(t *testing.T, pd *mat.Dense, weights []float64) {
	t.Helper()
	_, d := pd.Dims()
	for c := 0; c < d; c++ {
		assert.InDelta(t, 0, stat.Mean(mat.Col(nil, c, pd), weights), 1e-12)
	}
}

func TestPartialDependenceCentered(t *testing.T) {
	X := testkit.MustGenerate(testkit.GeneratorConfig{Rows: 120, Features: 3, Seed: 5})
	weights := testkit.UniformWeights(120, 9)
	ctx := context.Background()

	for _, features := range [][]int{{0}, {1}, {2}, {0, 1}, {1, 2}} {
		pd, err := PartialDependence(ctx, productModel(), X, features, nil)
		require.NoError(t, err)
		r, c := pd.Dims()
		assert.Equal(t, 120, r)
		assert.Equal(t, 1, c)
		assertCentered(t, pd, nil)

		pd, err = PartialDependence(ctx, productModel(), X, features, weights)
		require.NoError(t, err)
		assertCentered(t, pd, weights)
	}
}

func TestPartialDependenceKnownValues(t *testing.T) {
	// f = x0 * x1 on x0 = {1, 2, 3}, x1 = {0, 1, 2}: PD_0(x0) = x0 * mean(x1) = x0
	X := dataset.NewNumericFrame(nil, [][]float64{{1, 0}, {2, 1}, {3, 2}})
	m := model.NewLinearModel(0, model.Term{Features: []int{0, 1}, Coefficient: 1})

	pd, err := PartialDependence(context.Background(), m, X, []int{0}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, mat.Col(nil, 0, pd), 1e-12)
}

func TestPartialDependenceLargeIntegers(t *testing.T) {
	const big = int64(1) << 53
	X := dataset.NewFrame(nil, [][]any{{big, 0.0}, {big + 1, 0.0}})
	offset := model.RegressorFunc(func(row []any) float64 {
		return float64(row[0].(int64) - big)
	})

	pd, err := PartialDependence(context.Background(), offset, X, []int{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.5, 0.5}, mat.Col(nil, 0, pd))
}

func TestPartialDependenceCompressionMatchesIdentity(t *testing.T) {
	X := testkit.MustGenerate(testkit.GeneratorConfig{
		Rows: 90, Features: 3, DiscreteSteps: 3, Levels: []string{"a", "b"}, Seed: 11,
	})
	f := model.RegressorFunc(func(row []any) float64 {
		y := sumOfColumns(row[:3]) + row[0].(float64)*row[1].(float64)
		if row[3] == "a" {
			y += 2 * row[2].(float64)
		}
		return y
	})
	predict, err := resolvePredictor(f)
	require.NoError(t, err)
	ctx := context.Background()

	for _, features := range [][]int{{0}, {3}, {0, 1}, {2, 3}} {
		compressed, err := pdOverData(ctx, predict, X, features, nil, internal.NopLogger())
		require.NoError(t, err)

		grid := identityGrid(X.SelectColumns(features))
		full, err := evaluateGrid(ctx, predict, X, features, grid.points, nil)
		require.NoError(t, err)
		center(full, nil)

		assert.InDeltaSlice(t, mat.Col(nil, 0, full), mat.Col(nil, 0, compressed), 1e-12, "features %v", features)
	}
}

func TestPartialDependenceGridCompression(t *testing.T) {
	X := testkit.MustGenerate(testkit.GeneratorConfig{Rows: 60, Features: 2, Levels: []string{"a", "b", "c"}, Seed: 2})
	m := &countingModel{inner: func(row []any) float64 {
		if row[2] == "a" {
			return 1
		}
		return sumOfColumns(row[:2])
	}}

	_, err := PartialDependence(context.Background(), m, X, []int{2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 60*3, m.rows, "one block per distinct level")

	m.rows = 0
	_, err = PartialDependence(context.Background(), m, X, []int{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 60*60, m.rows, "continuous values do not compress")
}

func TestPartialDependenceMixedTypesFallBack(t *testing.T) {
	X := dataset.NewFrame([]string{"x", "mixed"}, [][]any{
		{1.0, "a"},
		{2.0, 3.0},
		{3.0, "a"},
	})
	m := &countingModel{inner: func(row []any) float64 {
		x := row[0].(float64)
		if row[1] == "a" {
			return x + 1
		}
		return x
	}}

	pd, err := PartialDependence(context.Background(), m, X, []int{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, m.rows, "every row is its own grid point")
	// PD_mixed = mean(x) + 1 for "a", mean(x) otherwise
	assert.InDeltaSlice(t, []float64{1.0 / 3, -2.0 / 3, 1.0 / 3}, mat.Col(nil, 0, pd), 1e-12)
}

func TestPartialDependenceValidation(t *testing.T) {
	X := dataset.NewNumericFrame(nil, [][]float64{{1, 2}})
	ctx := context.Background()

	_, err := PartialDependence(ctx, productModel(), X, nil, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidFeatureSpec))
	_, err = PartialDependence(ctx, productModel(), X, []int{2}, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidFeatureSpec))
	_, err = PartialDependence(ctx, productModel(), X, []int{0}, []float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrInvalidWeights))
	_, err = PartialDependence(ctx, &model.LinearModel{}, X, []int{0}, nil)
	assert.True(t, errors.Is(err, core.ErrNotFitted))
	_, err = PartialDependence(ctx, 42, X, []int{0}, nil)
	assert.True(t, errors.Is(err, core.ErrUnsupportedModel))
}
