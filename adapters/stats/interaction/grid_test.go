package interaction

import (
	"errors"
	"math"
	"testing"

	"gohstat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueRowsSingleColumn(t *testing.T) {
	raw := [][]any{{3.0}, {1.0}, {3}, {2.0}, {1.0}}

	grid, err := uniqueRows(raw)
	require.NoError(t, err)

	assert.Equal(t, [][]any{{1.0}, {2.0}, {3.0}}, grid.points)
	assert.Equal(t, []int{1, 3, 0}, grid.index)
	assert.Equal(t, []int{2, 0, 2, 1, 0}, grid.inverse)
	assert.True(t, grid.compressed())

	for i, g := range grid.inverse {
		assert.Equal(t, 0, compareAny(raw[i][0], grid.points[g][0]), "row %d", i)
	}
}

func TestUniqueRowsJoint(t *testing.T) {
	raw := [][]any{
		{"b", 1.0},
		{"a", 2.0},
		{"b", 1.0},
		{"a", 1.0},
		{"b", 2.0},
	}

	grid, err := uniqueRows(raw)
	require.NoError(t, err)

	assert.Equal(t, [][]any{{"a", 1.0}, {"a", 2.0}, {"b", 1.0}, {"b", 2.0}}, grid.points)
	assert.Equal(t, []int{3, 1, 0, 4}, grid.index)
	assert.Equal(t, []int{2, 1, 2, 0, 3}, grid.inverse)
}

func TestUniqueRowsLargeIntegers(t *testing.T) {
	const big = int64(1) << 53
	grid, err := uniqueRows([][]any{{big + 1}, {big}, {big + 1}})
	require.NoError(t, err)

	assert.Equal(t, [][]any{{big}, {big + 1}}, grid.points)
	assert.Equal(t, []int{1, 0, 1}, grid.inverse)

	grid, err = uniqueRows([][]any{{uint64(big)}, {uint64(big) + 1}})
	require.NoError(t, err)
	assert.Len(t, grid.points, 2)
}

func TestUniqueRowsNaN(t *testing.T) {
	nan := math.NaN()
	grid, err := uniqueRows([][]any{{nan}, {1.0}, {nan}})
	require.NoError(t, err)

	require.Len(t, grid.points, 2)
	assert.Equal(t, 1.0, grid.points[0][0])
	assert.True(t, math.IsNaN(grid.points[1][0].(float64)))
	assert.Equal(t, []int{1, 0, 1}, grid.inverse)
}

func TestUniqueRowsIncomparable(t *testing.T) {
	tests := map[string][][]any{
		"mixed kinds":   {{1.0}, {"a"}},
		"missing value": {{1.0, "a"}, {nil, "b"}},
		"unordered":     {{[]int{1}}},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := uniqueRows(raw)
			assert.True(t, errors.Is(err, core.ErrIncomparable))
		})
	}
}

func TestIdentityGrid(t *testing.T) {
	raw := [][]any{{1.0}, {1.0}, {"x"}}
	grid := identityGrid(raw)

	assert.Equal(t, raw, grid.points)
	assert.Equal(t, []int{0, 1, 2}, grid.index)
	assert.Equal(t, []int{0, 1, 2}, grid.inverse)
	assert.False(t, grid.compressed())
}

func compareAny(a, b any) int {
	x, _ := a.(float64)
	if i, ok := a.(int); ok {
		x = float64(i)
	}
	y, _ := b.(float64)
	if i, ok := b.(int); ok {
		y = float64(i)
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
