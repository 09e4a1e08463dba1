package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureGeneratorDeterministic(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.Rows = 50

	a := MustGenerate(config)
	b := MustGenerate(config)
	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, []string{"x0", "x1", "x2"}, a.Columns)
	require.NoError(t, a.Validate())

	for _, row := range a.Rows {
		for _, v := range row {
			f := v.(float64)
			assert.True(t, f >= -1 && f < 1)
		}
	}

	config.Seed = 7
	c := MustGenerate(config)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestFeatureGeneratorOptions(t *testing.T) {
	frame := MustGenerate(GeneratorConfig{
		Rows:          200,
		Features:      2,
		Distribution:  "normal",
		Levels:        []string{"a", "b", "c"},
		DiscreteSteps: 4,
		Seed:          1,
	})
	assert.Equal(t, []string{"x0", "x1", "level"}, frame.Columns)

	distinct := map[any]bool{}
	for _, row := range frame.Rows {
		distinct[row[0]] = true
		assert.Contains(t, []any{"a", "b", "c"}, row[2])
	}
	// Normal draws are unbounded, so snapped values are not confined to four steps
	assert.Less(t, len(distinct), 50)

	_, err := NewFeatureGenerator(GeneratorConfig{Rows: 1, Features: 1, Distribution: "cauchy"}).Generate()
	assert.Error(t, err)
	_, err = NewFeatureGenerator(GeneratorConfig{}).Generate()
	assert.Error(t, err)
}

func TestUniformWeights(t *testing.T) {
	w := UniformWeights(100, 3)
	require.Len(t, w, 100)
	for _, v := range w {
		assert.True(t, v >= 0.5 && v < 1.5)
	}
	assert.Equal(t, w, UniformWeights(100, 3))
}
