package interaction

import (
	"sort"

	"gohstat/domain/dataset"
)

// valueGrid holds the distinct value combinations of a feature subset.
// points[inverse[i]] equals the combination of original row i, and index[g]
// is the first original row holding points[g].
type valueGrid struct {
	points  [][]any
	index   []int
	inverse []int
}

// uniqueRows deduplicates the raw grid. It fails with core.ErrIncomparable
// when a column holds values that cannot be ordered together.
func uniqueRows(raw [][]any) (*valueGrid, error) {
	n := len(raw)
	if n == 0 {
		return &valueGrid{}, nil
	}
	width := len(raw[0])

	kinds := make([]dataset.Kind, width)
	column := make([]any, n)
	for k := 0; k < width; k++ {
		for i, row := range raw {
			column[i] = row[k]
		}
		kind, err := dataset.ColumnKind(column)
		if err != nil {
			return nil, err
		}
		kinds[k] = kind
	}

	var compare func(a, b []any) int
	if width == 1 {
		kind := kinds[0]
		compare = func(a, b []any) int {
			return dataset.Compare(kind, a[0], b[0])
		}
	} else {
		compare = func(a, b []any) int {
			for k, kind := range kinds {
				if c := dataset.Compare(kind, a[k], b[k]); c != 0 {
					return c
				}
			}
			return 0
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return compare(raw[order[a]], raw[order[b]]) < 0
	})

	grid := &valueGrid{inverse: make([]int, n)}
	for pos, i := range order {
		if pos == 0 || compare(raw[order[pos-1]], raw[i]) != 0 {
			grid.points = append(grid.points, raw[i])
			grid.index = append(grid.index, i)
		}
		grid.inverse[i] = len(grid.points) - 1
	}
	return grid, nil
}

// identityGrid treats every row as its own grid point
func identityGrid(raw [][]any) *valueGrid {
	grid := &valueGrid{
		points:  raw,
		index:   make([]int, len(raw)),
		inverse: make([]int, len(raw)),
	}
	for i := range raw {
		grid.index[i] = i
		grid.inverse[i] = i
	}
	return grid
}

// compressed reports whether the grid is smaller than the data it came from
func (g *valueGrid) compressed() bool {
	return len(g.points) < len(g.inverse)
}
