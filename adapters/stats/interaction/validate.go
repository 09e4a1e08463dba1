package interaction

import (
	"math"

	"gohstat/domain/core"
	"gohstat/domain/dataset"
)

// validateWeights checks length, sign and finiteness. nil weights are valid.
func validateWeights(weights []float64, n int) error {
	if weights == nil {
		return nil
	}
	if len(weights) != n {
		return core.NewWeightsError("got %d weights for %d rows", len(weights), n)
	}
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return core.NewWeightsError("weight %d is not finite", i)
		}
		if w < 0 {
			return core.NewWeightsError("weight %d is negative", i)
		}
		total += w
	}
	if total <= 0 {
		return core.NewWeightsError("weights sum to zero")
	}
	return nil
}

// featureSet is the resolved, ordered list of distinct feature columns
type featureSet struct {
	indices []int
	// names is set when the caller identified features by name
	names []string
}

func (fs featureSet) feature(pos int) Feature {
	f := Feature{Index: fs.indices[pos]}
	if fs.names != nil {
		f.Name = fs.names[pos]
	}
	return f
}

// resolveFeatures maps the requested identifiers onto column positions
func resolveFeatures(X *dataset.Frame, o *Options) (featureSet, error) {
	p := X.ColumnCount()
	var fs featureSet

	switch {
	case o.featureNames != nil:
		if !X.HasNames() {
			return fs, core.NewFeatureSpecError("feature names given but the data has no column names")
		}
		for _, name := range o.featureNames {
			j, ok := X.ColumnIndex(name)
			if !ok {
				return fs, core.NewFeatureSpecError("unknown feature %q", name)
			}
			fs.indices = append(fs.indices, j)
		}
		fs.names = append([]string(nil), o.featureNames...)

	case o.featureIndices != nil:
		for _, j := range o.featureIndices {
			if j < 0 || j >= p {
				return fs, core.NewFeatureSpecError("column index %d out of range [0, %d)", j, p)
			}
		}
		fs.indices = append([]int(nil), o.featureIndices...)

	default:
		fs.indices = make([]int, p)
		for j := range fs.indices {
			fs.indices[j] = j
		}
	}

	seen := make(map[int]bool, len(fs.indices))
	for _, j := range fs.indices {
		if seen[j] {
			return fs, core.NewFeatureSpecError("column %d requested twice", j)
		}
		seen[j] = true
	}
	if len(fs.indices) < 2 {
		return fs, core.NewFeatureSpecError("need at least two distinct features, got %d", len(fs.indices))
	}
	return fs, nil
}
