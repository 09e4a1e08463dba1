package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/ports"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Score is the fit of one model to a count or rate target
type Score struct {
	Name         string  `json:"name"`
	MeanDeviance float64 `json:"mean_deviance"`
	// PseudoR2 is the relative deviance reduction against the reference model
	PseudoR2 float64 `json:"pseudo_r2"`
}

// NamedModel is a regressor with a display name
type NamedModel struct {
	Name  string
	Model ports.Regressor
}

// MeanPoissonDeviance returns the weighted mean of 2(y log(y/mu) - y + mu).
// Targets must be non-negative and predictions positive; y log(y/mu) is 0
// where y is 0.
func MeanPoissonDeviance(y, mu, weights []float64) (float64, error) {
	if len(y) == 0 {
		return 0, fmt.Errorf("%w: no observations", core.ErrInvalidTarget)
	}
	if len(mu) != len(y) {
		return 0, core.NewPredictionShapeError(len(y), len(mu))
	}
	if weights != nil {
		if len(weights) != len(y) {
			return 0, core.NewWeightsError("got %d weights for %d rows", len(weights), len(y))
		}
		for i, w := range weights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return 0, core.NewWeightsError("weight %d is %v", i, w)
			}
		}
		if floats.Sum(weights) <= 0 {
			return 0, core.NewWeightsError("weights sum to zero")
		}
	}

	dev := make([]float64, len(y))
	for i := range y {
		if y[i] < 0 || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return 0, fmt.Errorf("%w: target %d is %v, want a non-negative number", core.ErrInvalidTarget, i, y[i])
		}
		if !(mu[i] > 0) || math.IsInf(mu[i], 0) {
			return 0, fmt.Errorf("%w: prediction %d is %v, want a positive number", core.ErrPredictionShape, i, mu[i])
		}
		d := mu[i] - y[i]
		if y[i] > 0 {
			d += y[i] * math.Log(y[i]/mu[i])
		}
		dev[i] = 2 * d
	}
	return stat.Mean(dev, weights), nil
}

// PoissonScores scores every model on X against the target y, plus the
// reference model itself as the first entry. Pseudo R squared is
// (D_reference - D_model) / D_reference.
func PoissonScores(ctx context.Context, X *dataset.Frame, y, weights []float64, reference NamedModel, models []NamedModel) ([]Score, error) {
	if reference.Model == nil {
		return nil, fmt.Errorf("%w: no reference model", core.ErrUnsupportedModel)
	}

	deviance := func(m NamedModel) (float64, error) {
		preds, err := m.Model.Predict(ctx, X)
		if err != nil {
			return 0, fmt.Errorf("model %s: %w", m.Name, err)
		}
		d, err := MeanPoissonDeviance(y, preds, weights)
		if err != nil {
			return 0, fmt.Errorf("model %s: %w", m.Name, err)
		}
		return d, nil
	}

	d0, err := deviance(reference)
	if err != nil {
		return nil, err
	}
	if d0 == 0 {
		return nil, fmt.Errorf("%w: reference model %s fits the target exactly", core.ErrInvalidTarget, reference.Name)
	}

	scores := []Score{{Name: reference.Name, MeanDeviance: d0}}
	for _, m := range models {
		if m.Model == nil {
			return nil, fmt.Errorf("%w: model %s is nil", core.ErrUnsupportedModel, m.Name)
		}
		d, err := deviance(m)
		if err != nil {
			return nil, err
		}
		scores = append(scores, Score{Name: m.Name, MeanDeviance: d, PseudoR2: (d0 - d) / d0})
	}
	return scores, nil
}

// RenderScores writes the scores in the given format
func RenderScores(w io.Writer, format Format, scores []Score) error {
	switch format {
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "model\tmean deviance\tpseudo R^2\t")
		for _, s := range scores {
			fmt.Fprintf(tw, "%s\t%.6g\t%.4f\t\n", s.Name, s.MeanDeviance, s.PseudoR2)
		}
		return tw.Flush()
	case FormatMarkdown:
		return scoresMarkdown(w, scores)
	case FormatHTML:
		var md bytes.Buffer
		if err := scoresMarkdown(&md, scores); err != nil {
			return err
		}
		return writePage(w, md.Bytes(), "Poisson deviance")
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}
	return fmt.Errorf("unknown report format %q", format)
}

func scoresMarkdown(w io.Writer, scores []Score) error {
	fmt.Fprintln(w, "# Poisson deviance")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Model | Mean deviance | Pseudo R² |")
	_, err := fmt.Fprintln(w, "|---|---:|---:|")
	for _, s := range scores {
		_, err = fmt.Fprintf(w, "| %s | %.6g | %.4f |\n", escapePipes(s.Name), s.MeanDeviance, s.PseudoR2)
	}
	return err
}
