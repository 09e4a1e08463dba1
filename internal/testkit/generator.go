package testkit

import (
	"fmt"
	"math/rand/v2"

	"gohstat/domain/dataset"

	"gonum.org/v1/gonum/stat/distuv"
)

// GeneratorConfig configures the synthetic feature generator
type GeneratorConfig struct {
	Rows          int      `json:"rows"`
	Features      int      `json:"features"`
	Distribution  string   `json:"distribution"` // "uniform" or "normal"
	Levels        []string `json:"levels"`       // adds a categorical column when set
	DiscreteSteps int      `json:"discrete_steps"`
	Seed          uint64   `json:"seed"`
}

// DefaultGeneratorConfig returns 1000 rows of 3 independent uniform features
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:         1000,
		Features:     3,
		Distribution: "uniform",
		Seed:         42,
	}
}

// FeatureGenerator draws independent feature columns
type FeatureGenerator struct {
	config GeneratorConfig
	src    rand.Source
}

// NewFeatureGenerator creates a seeded generator
func NewFeatureGenerator(config GeneratorConfig) *FeatureGenerator {
	return &FeatureGenerator{
		config: config,
		src:    rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15),
	}
}

// Generate returns a frame with columns x0..x{p-1} and, if levels are
// configured, a trailing "level" column.
func (g *FeatureGenerator) Generate() (*dataset.Frame, error) {
	if g.config.Rows < 1 || g.config.Features < 1 {
		return nil, fmt.Errorf("generator needs rows and features, got %d x %d", g.config.Rows, g.config.Features)
	}

	var draw func() float64
	switch g.config.Distribution {
	case "", "uniform":
		draw = distuv.Uniform{Min: -1, Max: 1, Src: g.src}.Rand
	case "normal":
		draw = distuv.Normal{Mu: 0, Sigma: 1, Src: g.src}.Rand
	default:
		return nil, fmt.Errorf("unknown distribution %q", g.config.Distribution)
	}

	columns := make([]string, 0, g.config.Features+1)
	for j := 0; j < g.config.Features; j++ {
		columns = append(columns, fmt.Sprintf("x%d", j))
	}
	if len(g.config.Levels) > 0 {
		columns = append(columns, "level")
	}

	rng := rand.New(g.src)
	rows := make([][]any, g.config.Rows)
	for i := range rows {
		row := make([]any, 0, len(columns))
		for j := 0; j < g.config.Features; j++ {
			v := draw()
			if g.config.DiscreteSteps > 0 {
				// Snap to a small set of values to exercise grid compression
				v = float64(int((v+1)/2*float64(g.config.DiscreteSteps))) / float64(g.config.DiscreteSteps)
			}
			row = append(row, v)
		}
		if len(g.config.Levels) > 0 {
			row = append(row, g.config.Levels[rng.IntN(len(g.config.Levels))])
		}
		rows[i] = row
	}

	return dataset.NewFrame(columns, rows), nil
}

// MustGenerate is Generate for tests
func MustGenerate(config GeneratorConfig) *dataset.Frame {
	frame, err := NewFeatureGenerator(config).Generate()
	if err != nil {
		panic(err)
	}
	return frame
}

// UniformWeights draws n weights in [0.5, 1.5)
func UniformWeights(n int, seed uint64) []float64 {
	u := distuv.Uniform{Min: 0.5, Max: 1.5, Src: rand.NewPCG(seed, seed)}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = u.Rand()
	}
	return weights
}
