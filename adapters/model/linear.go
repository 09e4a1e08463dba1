package model

import (
	"context"
	"fmt"

	"gohstat/domain/dataset"
)

// LevelEffect adds Effects[level] for the level found in Column. Unknown
// levels contribute 0.
type LevelEffect struct {
	Column  int
	Effects map[string]float64
}

// Term is a coefficient times the product of the listed feature columns.
// A single column is a main effect.
type Term struct {
	Features    []int
	Coefficient float64
}

// LinearModel predicts intercept + sum of terms + categorical level effects.
// Product terms make it non-additive, which is what interaction tests need.
type LinearModel struct {
	Intercept float64
	Terms     []Term
	Levels    []LevelEffect

	fitted bool
}

// NewLinearModel creates a fitted linear model
func NewLinearModel(intercept float64, terms ...Term) *LinearModel {
	return &LinearModel{Intercept: intercept, Terms: terms, fitted: true}
}

// WithLevels adds categorical level effects for a column
func (m *LinearModel) WithLevels(column int, levels map[string]float64) *LinearModel {
	m.Levels = append(m.Levels, LevelEffect{Column: column, Effects: levels})
	return m
}

// IsFitted reports whether the model was built by a constructor
func (m *LinearModel) IsFitted() bool {
	return m.fitted
}

// Predict evaluates the model on every row
func (m *LinearModel) Predict(ctx context.Context, X *dataset.Frame) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds := make([]float64, len(X.Rows))
	for i, row := range X.Rows {
		y, err := m.eval(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		preds[i] = y
	}
	return preds, nil
}

func (m *LinearModel) eval(row []any) (float64, error) {
	y := m.Intercept
	for _, term := range m.Terms {
		v := term.Coefficient
		for _, j := range term.Features {
			if j < 0 || j >= len(row) {
				return 0, fmt.Errorf("term column %d out of range", j)
			}
			x, ok := dataset.Float(row[j])
			if !ok {
				return 0, fmt.Errorf("column %d: %v (%T) is not numeric", j, row[j], row[j])
			}
			v *= x
		}
		y += v
	}
	for _, level := range m.Levels {
		j := level.Column
		if j < 0 || j >= len(row) {
			return 0, fmt.Errorf("level column %d out of range", j)
		}
		y += level.Effects[fmt.Sprint(row[j])]
	}
	return y, nil
}
