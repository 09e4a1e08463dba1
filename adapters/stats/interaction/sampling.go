package interaction

import (
	"math/rand/v2"
	"sort"

	"gohstat/domain/dataset"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// workingSet is the engine's private copy of the data
type workingSet struct {
	X       *dataset.Frame
	weights []float64
	// rows are the positions in the caller's frame, ascending
	rows []int
}

// subsample draws nMax rows without replacement when X is larger, else copies X.
func subsample(X *dataset.Frame, weights []float64, nMax int, seed uint64) workingSet {
	n := X.RowCount()

	var rows []int
	if n > nMax {
		rows = make([]int, nMax)
		sampleuv.WithoutReplacement(rows, n, rand.NewPCG(seed, seed))
		sort.Ints(rows)
	} else {
		rows = make([]int, n)
		for i := range rows {
			rows[i] = i
		}
	}

	ws := workingSet{X: X.SelectRows(rows), rows: rows}
	if weights != nil {
		ws.weights = make([]float64, len(rows))
		for k, i := range rows {
			ws.weights[k] = weights[i]
		}
	}
	return ws
}
