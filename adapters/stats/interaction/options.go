package interaction

import (
	"math"

	"gohstat/domain/core"
	"gohstat/internal"
)

const (
	// DefaultNMax is the number of rows kept by subsampling
	DefaultNMax = 500
	// DefaultEps is the threshold below which numerators are set to 0
	DefaultEps = 1e-10
)

// Options configures one H-statistic computation
type Options struct {
	featureNames   []string
	featureIndices []int
	nMax           int
	seed           uint64
	hasSeed        bool
	weights        []float64
	eps            float64
	workers        int
	logger         *internal.Logger
}

// Option is a configuration function.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		nMax:    DefaultNMax,
		eps:     DefaultEps,
		workers: 1,
		logger:  internal.DefaultLogger,
	}
}

// WithFeatureNames restricts the computation to the named columns. Pairs are
// reported by name.
func WithFeatureNames(names ...string) Option {
	return func(o *Options) {
		o.featureNames = names
		o.featureIndices = nil
	}
}

// WithFeatureIndices restricts the computation to the given column positions.
// Pairs are reported by index.
func WithFeatureIndices(indices ...int) Option {
	return func(o *Options) {
		o.featureIndices = indices
		o.featureNames = nil
	}
}

// WithNMax sets the number of rows drawn without replacement when the data is larger.
func WithNMax(n int) Option {
	return func(o *Options) {
		o.nMax = n
	}
}

// WithSeed makes subsampling reproducible.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithSampleWeight sets per-row weights used in every average.
func WithSampleWeight(weights []float64) Option {
	return func(o *Options) {
		o.weights = weights
	}
}

// WithEps sets the absolute threshold below which numerators are rounded to 0.
func WithEps(eps float64) Option {
	return func(o *Options) {
		o.eps = eps
	}
}

// WithWorkers bounds the number of partial dependences computed concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *internal.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func (o *Options) validate() error {
	if o.nMax < 1 {
		return core.NewOptionError("n_max", "must be at least 1")
	}
	if math.IsNaN(o.eps) || o.eps < 0 {
		return core.NewOptionError("eps", "must be a non-negative number")
	}
	if o.workers < 1 {
		return core.NewOptionError("workers", "must be at least 1")
	}
	return nil
}
