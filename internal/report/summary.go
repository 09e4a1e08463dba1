package report

import (
	"gohstat/adapters/stats/interaction"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Summary describes the H squared distribution of one model output
type Summary struct {
	Output    int                      `json:"output"`
	Pairs     int                      `json:"pairs"`
	Mean      float64                  `json:"mean"`
	Median    float64                  `json:"median"`
	Max       float64                  `json:"max"`
	Strongest *interaction.FeaturePair `json:"strongest,omitempty"`
}

// Summarize computes one summary per model output
func Summarize(result *interaction.Result) ([]Summary, error) {
	summaries := make([]Summary, result.OutputDim)
	for c := range summaries {
		s := Summary{Output: c, Pairs: result.Len()}
		if result.Len() == 0 {
			summaries[c] = s
			continue
		}

		h := mat.Col(nil, c, result.HSquared)
		var err error
		if s.Mean, err = stats.Mean(h); err != nil {
			return nil, err
		}
		if s.Median, err = stats.Median(h); err != nil {
			return nil, err
		}
		if s.Max, err = stats.Max(h); err != nil {
			return nil, err
		}
		if s.Max > 0 {
			top := result.Ranked(c)[0].Pair
			s.Strongest = &top
		}
		summaries[c] = s
	}
	return summaries, nil
}
