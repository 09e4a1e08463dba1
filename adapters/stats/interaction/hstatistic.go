// Package interaction computes Friedman and Popescu's H-statistic of pairwise
// interaction strength for fitted models.
//
// For features j and k with centered partial dependence functions PD_j, PD_k
// and PD_jk, evaluated at every row of the data,
//
//	H_jk^2 = mean((PD_jk - PD_j - PD_k)^2) / mean(PD_jk^2)
//
// is the share of the joint effect variability of j and k that their main
// effects do not explain. Without interaction it is exactly 0. The numerator
// alone measures absolute interaction strength; its square root is on the
// scale of the predictions.
//
// The cost is O(p^2 n^2) model evaluations for p features. n is bounded by
// subsampling (WithNMax); restricting p to important features is the caller's
// job. For weak predictors the denominator is small and even a weak
// interaction can give H^2 above 1.
//
// Reference: J. H. Friedman and B. E. Popescu, "Predictive Learning via Rule
// Ensembles", The Annals of Applied Statistics 2(3), 916-954, 2008.
package interaction

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gohstat/domain/core"
	"gohstat/domain/dataset"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// HStatistic computes the pairwise H-statistics of model on X. All input
// validation happens before the first model call. X and the weights are
// never modified.
func HStatistic(ctx context.Context, model any, X *dataset.Frame, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	if err := checkFitted(model); err != nil {
		return nil, err
	}
	predict, err := resolvePredictor(model)
	if err != nil {
		return nil, err
	}
	if err := X.Validate(); err != nil {
		return nil, err
	}
	if err := validateWeights(o.weights, X.RowCount()); err != nil {
		return nil, err
	}
	features, err := resolveFeatures(X, &o)
	if err != nil {
		return nil, err
	}

	seed := o.seed
	if !o.hasSeed {
		seed = rand.Uint64()
	}
	ws := subsample(X, o.weights, o.nMax, seed)
	if ws.weights != nil && floats.Sum(ws.weights) <= 0 {
		return nil, core.NewWeightsError("weights of the %d sampled rows sum to zero", len(ws.rows))
	}
	if len(ws.rows) < X.RowCount() {
		o.logger.Debug("subsampled %d of %d rows (seed %d)", len(ws.rows), X.RowCount(), seed)
	}

	m := len(features.indices)
	start := time.Now()

	// Univariate partial dependences are shared by all pairs
	univariate := make([]*mat.Dense, m)
	err = runTasks(ctx, o.workers, m, func(ctx context.Context, j int) error {
		pd, err := pdOverData(ctx, predict, ws.X, []int{features.indices[j]}, ws.weights, o.logger)
		univariate[j] = pd
		return err
	})
	if err != nil {
		return nil, err
	}

	pairs := combinations(m)
	num := make([][]float64, len(pairs))
	denom := make([][]float64, len(pairs))
	err = runTasks(ctx, o.workers, len(pairs), func(ctx context.Context, t int) error {
		j, k := pairs[t][0], pairs[t][1]
		pairStart := time.Now()
		bivariate, err := pdOverData(ctx, predict, ws.X, []int{features.indices[j], features.indices[k]}, ws.weights, o.logger)
		if err != nil {
			return err
		}
		num[t], denom[t], err = pairStatistic(bivariate, univariate[j], univariate[k], ws.weights)
		if err != nil {
			return err
		}
		o.logger.Trace("pair %s done in %s", FeaturePair{features.feature(j), features.feature(k)}, time.Since(pairStart))
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := assemble(features, pairs, num, denom, o.eps)
	result.SampledRows = ws.rows
	o.logger.Debug("H-statistics for %d pairs over %d rows computed in %s", len(pairs), len(ws.rows), time.Since(start))
	return result, nil
}

// combinations enumerates position pairs j < k in lexicographic order
func combinations(m int) [][2]int {
	pairs := make([][2]int, 0, m*(m-1)/2)
	for j := 0; j < m; j++ {
		for k := j + 1; k < m; k++ {
			pairs = append(pairs, [2]int{j, k})
		}
	}
	return pairs
}

// runTasks runs task(0..n-1) with at most workers in flight and stops at the first error.
func runTasks(ctx context.Context, workers, n int, task func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return task(ctx, i)
		})
	}
	return g.Wait()
}

// pairStatistic returns the weighted means of (PD_jk - (PD_j + PD_k))^2 and PD_jk^2
// per output. PD_j + PD_k is summed first so the result does not depend on
// the order of j and k.
func pairStatistic(bivariate, pdJ, pdK *mat.Dense, weights []float64) (num, denom []float64, err error) {
	n, d := bivariate.Dims()
	for _, pd := range []*mat.Dense{pdJ, pdK} {
		if r, c := pd.Dims(); r != n || c != d {
			return nil, nil, fmt.Errorf("%w: partial dependence of shape %dx%d, expected %dx%d",
				core.ErrPredictionShape, r, c, n, d)
		}
	}

	num = make([]float64, d)
	denom = make([]float64, d)
	residual := make([]float64, n)
	joint := make([]float64, n)
	for c := 0; c < d; c++ {
		for i := 0; i < n; i++ {
			b := bivariate.At(i, c)
			r := b - (pdJ.At(i, c) + pdK.At(i, c))
			residual[i] = r * r
			joint[i] = b * b
		}
		num[c] = stat.Mean(residual, weights)
		denom[c] = stat.Mean(joint, weights)
	}
	return num, denom, nil
}

// assemble applies the numerator rounding and the zero-denominator fallback
func assemble(features featureSet, pairs [][2]int, num, denom [][]float64, eps float64) *Result {
	d := 1
	if len(num) > 0 {
		d = len(num[0])
	}

	result := &Result{
		FeaturePairs: make([]FeaturePair, len(pairs)),
		HSquared:     mat.NewDense(len(pairs), d, nil),
		Numerator:    mat.NewDense(len(pairs), d, nil),
		Denominator:  mat.NewDense(len(pairs), d, nil),
		OutputDim:    d,
	}

	for t, pair := range pairs {
		result.FeaturePairs[t] = FeaturePair{
			First:  features.feature(pair[0]),
			Second: features.feature(pair[1]),
		}
		for c := 0; c < d; c++ {
			n := num[t][c]
			if math.Abs(n) < eps {
				n = 0
			}
			h := 0.0
			if denom[t][c] > 0 {
				h = n / denom[t][c]
			}
			result.Numerator.Set(t, c, n)
			result.Denominator.Set(t, c, denom[t][c])
			result.HSquared.Set(t, c, h)
		}
	}
	return result
}
