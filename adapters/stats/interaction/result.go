package interaction

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Feature identifies a column the way the caller requested it
type Feature struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

func (f Feature) String() string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(f.Index)
}

// FeaturePair is an unordered feature pair in enumeration order
type FeaturePair struct {
	First  Feature `json:"first"`
	Second Feature `json:"second"`
}

func (p FeaturePair) String() string {
	return "(" + p.First.String() + ", " + p.Second.String() + ")"
}

// PairStatistic holds the statistics of one pair, one value per model output
type PairStatistic struct {
	Pair        FeaturePair `json:"feature_pair"`
	HSquared    []float64   `json:"h_squared"`
	Numerator   []float64   `json:"numerator"`
	Denominator []float64   `json:"denominator"`
}

// Result holds the pairwise H-statistics. Row i of each matrix belongs to
// FeaturePairs[i], column c to model output c.
type Result struct {
	FeaturePairs []FeaturePair
	HSquared     *mat.Dense
	Numerator    *mat.Dense
	Denominator  *mat.Dense
	OutputDim    int
	// SampledRows are the rows of the input frame used, ascending
	SampledRows []int
}

// Len returns the number of pairs
func (r *Result) Len() int {
	return len(r.FeaturePairs)
}

// Record returns the statistics of pair i
func (r *Result) Record(i int) PairStatistic {
	return PairStatistic{
		Pair:        r.FeaturePairs[i],
		HSquared:    mat.Row(nil, i, r.HSquared),
		Numerator:   mat.Row(nil, i, r.Numerator),
		Denominator: mat.Row(nil, i, r.Denominator),
	}
}

// Records returns all pair statistics in enumeration order
func (r *Result) Records() []PairStatistic {
	out := make([]PairStatistic, r.Len())
	for i := range out {
		out[i] = r.Record(i)
	}
	return out
}

// Lookup finds the statistics of a pair in either order
func (r *Result) Lookup(a, b int) (PairStatistic, bool) {
	for i, p := range r.FeaturePairs {
		if (p.First.Index == a && p.Second.Index == b) || (p.First.Index == b && p.Second.Index == a) {
			return r.Record(i), true
		}
	}
	return PairStatistic{}, false
}

// Ranked returns the records sorted by H squared of output c, strongest first.
// Ties keep enumeration order.
func (r *Result) Ranked(c int) []PairStatistic {
	records := r.Records()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].HSquared[c] > records[j].HSquared[c]
	})
	return records
}

// AbsoluteStrength returns sqrt(numerator), the interaction strength on the
// scale of the predictions.
func (r *Result) AbsoluteStrength() *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return math.Sqrt(v) }, r.Numerator)
	return &out
}

type resultJSON struct {
	FeaturePairs []FeaturePair `json:"feature_pairs"`
	HSquared     [][]jsonFloat `json:"h_squared"`
	Numerator    [][]jsonFloat `json:"numerator"`
	Denominator  [][]jsonFloat `json:"denominator"`
	OutputDim    int           `json:"output_dim"`
	SampledRows  []int         `json:"sampled_rows"`
}

// MarshalJSON encodes the matrices as nested arrays, one inner array per pair.
// Non-finite values become null.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		FeaturePairs: r.FeaturePairs,
		HSquared:     rows(r.HSquared),
		Numerator:    rows(r.Numerator),
		Denominator:  rows(r.Denominator),
		OutputDim:    r.OutputDim,
		SampledRows:  r.SampledRows,
	})
}

// jsonFloat encodes NaN and infinities as null
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func rows(m *mat.Dense) [][]jsonFloat {
	if m == nil {
		return nil
	}
	n, d := m.Dims()
	out := make([][]jsonFloat, n)
	for i := range out {
		out[i] = make([]jsonFloat, d)
		for c := range out[i] {
			out[i][c] = jsonFloat(m.At(i, c))
		}
	}
	return out
}
