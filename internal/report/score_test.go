package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gohstat/adapters/model"
	"gohstat/domain/core"
	"gohstat/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanPoissonDeviance(t *testing.T) {
	// unit 0: 2(1 - 0) = 2, unit 1: 2(2 log 2 - 2 + 1)
	second := 2 * (2*math.Log(2) - 1)

	d, err := MeanPoissonDeviance([]float64{0, 2}, []float64{1, 1}, nil)
	require.NoError(t, err)
	assert.InDelta(t, (2+second)/2, d, 1e-12)

	d, err = MeanPoissonDeviance([]float64{0, 2}, []float64{1, 1}, []float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, (2+3*second)/4, d, 1e-12)

	d, err = MeanPoissonDeviance([]float64{0.5, 3}, []float64{0.5, 3}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-15)
}

func TestMeanPoissonDevianceErrors(t *testing.T) {
	tests := []struct {
		name    string
		y, mu   []float64
		weights []float64
		want    error
	}{
		{"empty", nil, nil, nil, core.ErrInvalidTarget},
		{"length mismatch", []float64{1}, []float64{1, 2}, nil, core.ErrPredictionShape},
		{"negative target", []float64{-1}, []float64{1}, nil, core.ErrInvalidTarget},
		{"NaN target", []float64{math.NaN()}, []float64{1}, nil, core.ErrInvalidTarget},
		{"zero prediction", []float64{1}, []float64{0}, nil, core.ErrPredictionShape},
		{"NaN prediction", []float64{1}, []float64{math.NaN()}, nil, core.ErrPredictionShape},
		{"weights length", []float64{1}, []float64{1}, []float64{1, 1}, core.ErrInvalidWeights},
		{"negative weight", []float64{1, 2}, []float64{1, 1}, []float64{1, -1}, core.ErrInvalidWeights},
		{"zero weights", []float64{1}, []float64{1}, []float64{0}, core.ErrInvalidWeights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MeanPoissonDeviance(tt.y, tt.mu, tt.weights)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPoissonScores(t *testing.T) {
	y := []float64{1, 2, 3}
	X := dataset.NewNumericFrame([]string{"y"}, [][]float64{{1}, {2}, {3}})
	constant := NamedModel{Name: "mean", Model: model.RegressorFunc(func([]any) float64 { return 2 })}
	exact := NamedModel{Name: "exact", Model: model.RegressorFunc(func(row []any) float64 { return row[0].(float64) })}
	half := NamedModel{Name: "half", Model: model.RegressorFunc(func(row []any) float64 { return (row[0].(float64) + 2) / 2 })}

	scores, err := PoissonScores(context.Background(), X, y, nil, constant, []NamedModel{exact, half})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	d0, err := MeanPoissonDeviance(y, []float64{2, 2, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, Score{Name: "mean", MeanDeviance: d0}, scores[0])
	assert.Equal(t, "exact", scores[1].Name)
	assert.InDelta(t, 0, scores[1].MeanDeviance, 1e-15)
	assert.InDelta(t, 1, scores[1].PseudoR2, 1e-12)
	assert.Greater(t, scores[2].PseudoR2, 0.0)
	assert.Less(t, scores[2].PseudoR2, 1.0)

	_, err = PoissonScores(context.Background(), X, y, nil, exact, []NamedModel{constant})
	assert.True(t, errors.Is(err, core.ErrInvalidTarget), "a perfect reference leaves nothing to explain")

	_, err = PoissonScores(context.Background(), X, y, nil, NamedModel{Name: "none"}, nil)
	assert.True(t, errors.Is(err, core.ErrUnsupportedModel))
}

func TestRenderScores(t *testing.T) {
	scores := []Score{{Name: "null", MeanDeviance: 1.5}, {Name: "glm", MeanDeviance: 1.2, PseudoR2: 0.2}}

	var buf bytes.Buffer
	require.NoError(t, RenderScores(&buf, FormatText, scores))
	assert.Contains(t, buf.String(), "pseudo R^2")
	assert.Contains(t, buf.String(), "0.2000")

	buf.Reset()
	require.NoError(t, RenderScores(&buf, FormatMarkdown, scores))
	assert.Contains(t, buf.String(), "| glm | 1.2 | 0.2000 |")

	buf.Reset()
	require.NoError(t, RenderScores(&buf, FormatHTML, scores))
	assert.Contains(t, buf.String(), "<table>")

	buf.Reset()
	require.NoError(t, RenderScores(&buf, FormatJSON, scores))
	var decoded []Score
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, scores, decoded)

	assert.Error(t, RenderScores(&buf, Format("pdf"), scores))
}
