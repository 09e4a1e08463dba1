package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"gohstat/adapters/excel"
	"gohstat/adapters/model"
	"gohstat/adapters/stats/interaction"
	"gohstat/domain/core"
	"gohstat/domain/dataset"
	"gohstat/internal"
	"gohstat/internal/config"
	"gohstat/internal/errors"
	"gohstat/internal/report"
	"gohstat/models"
	"gohstat/ports"
)

// InteractionService computes H-statistics and keeps a ledger of runs
type InteractionService struct {
	runs     ports.RunRepository // nil disables persistence
	defaults config.EngineConfig
	logger   *internal.Logger
}

// ComputeRequest defines the inputs of one computation. Nil pointers fall
// back to the configured engine defaults.
type ComputeRequest struct {
	Frame          *dataset.Frame
	Model          any
	ModelKind      string
	Source         string
	FeatureNames   []string
	FeatureIndices []int
	NMax           *int
	Seed           *uint64
	Eps            *float64
	Workers        *int
	SampleWeight   []float64
	Persist        bool
}

// FileRequest names a data file and a model specification file
type FileRequest struct {
	DataPath     string
	ModelPath    string
	Sheet        string
	JSONPath     string
	WeightColumn string
	FeatureNames []string
	NMax         *int
	Seed         *uint64
	Eps          *float64
	Workers      *int
	Persist      bool
}

// ComputeResponse contains the result and the run record
type ComputeResponse struct {
	Run       *models.InteractionRun `json:"run"`
	Result    *interaction.Result    `json:"result"`
	Persisted bool                   `json:"persisted"`
	RuntimeMs int64                  `json:"runtime_ms"`
}

// NewInteractionService creates the service. runs may be nil.
func NewInteractionService(runs ports.RunRepository, defaults config.EngineConfig, logger *internal.Logger) *InteractionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &InteractionService{runs: runs, defaults: defaults, logger: logger}
}

// PersistenceEnabled reports whether runs can be stored
func (s *InteractionService) PersistenceEnabled() bool {
	return s.runs != nil
}

// Compute runs the H-statistic engine and optionally stores the run
func (s *InteractionService) Compute(ctx context.Context, req ComputeRequest) (*ComputeResponse, error) {
	startTime := time.Now()

	if req.Persist && s.runs == nil {
		return nil, errors.InvalidInput("persistence requested but no database is configured")
	}

	// Draw the seed here so that every run is reproducible from its record
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	nMax := s.capped("n_max", valueOr(req.NMax, s.defaults.NMax), s.defaults.MaxNMax)
	workers := s.capped("workers", valueOr(req.Workers, s.defaults.Workers), s.defaults.MaxWorkers)
	opts := []interaction.Option{
		interaction.WithNMax(nMax),
		interaction.WithEps(valueOr(req.Eps, s.defaults.Eps)),
		interaction.WithWorkers(workers),
		interaction.WithSeed(seed),
		interaction.WithLogger(s.logger),
	}
	switch {
	case req.FeatureNames != nil:
		opts = append(opts, interaction.WithFeatureNames(req.FeatureNames...))
	case req.FeatureIndices != nil:
		opts = append(opts, interaction.WithFeatureIndices(req.FeatureIndices...))
	}
	if req.SampleWeight != nil {
		opts = append(opts, interaction.WithSampleWeight(req.SampleWeight))
	}

	result, err := interaction.HStatistic(ctx, req.Model, req.Frame, opts...)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Wrap(err, "interaction statistic failed")
	}

	run := newRun(core.NewRunID(), req, result, seed, nMax, valueOr(req.Eps, s.defaults.Eps))
	resp := &ComputeResponse{Run: run, Result: result}

	if req.Persist {
		if err := s.runs.Save(ctx, run); err != nil {
			return nil, errors.DatabaseError("failed to save run", err)
		}
		resp.Persisted = true
	}

	resp.RuntimeMs = time.Since(startTime).Milliseconds()
	s.logger.Info("run %s: %d pairs over %d of %d rows in %dms (source %q, persisted %t)",
		run.ID, result.Len(), run.RowsUsed, run.RowCount, resp.RuntimeMs, req.Source, resp.Persisted)
	return resp, nil
}

// ComputeFromFiles loads the data and model files and computes the statistics
func (s *InteractionService) ComputeFromFiles(ctx context.Context, req FileRequest) (*ComputeResponse, error) {
	frame, err := s.loadFrame(req.DataPath, req.Sheet, req.JSONPath)
	if err != nil {
		return nil, err
	}

	var weights []float64
	if req.WeightColumn != "" {
		weights, err = excel.ExtractWeights(frame, req.WeightColumn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract sample weights")
		}
	}

	spec, err := model.LoadSpec(req.ModelPath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	m, err := spec.Build(frame.Columns)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	return s.Compute(ctx, ComputeRequest{
		Frame:        frame,
		Model:        m,
		ModelKind:    spec.Kind,
		Source:       req.DataPath,
		FeatureNames: req.FeatureNames,
		NMax:         req.NMax,
		Seed:         req.Seed,
		Eps:          req.Eps,
		Workers:      req.Workers,
		SampleWeight: weights,
		Persist:      req.Persist,
	})
}

// ScoreRequest names a data file with an observed target and the model
// specification files to score against a reference model
type ScoreRequest struct {
	DataPath      string
	Sheet         string
	JSONPath      string
	TargetColumn  string
	WeightColumn  string
	ReferencePath string
	ModelPaths    []string
}

// ScoreFromFiles computes the mean Poisson deviance and pseudo R squared of
// each model relative to the reference model
func (s *InteractionService) ScoreFromFiles(ctx context.Context, req ScoreRequest) ([]report.Score, error) {
	frame, err := s.loadFrame(req.DataPath, req.Sheet, req.JSONPath)
	if err != nil {
		return nil, err
	}

	y, err := excel.ExtractTarget(frame, req.TargetColumn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract target")
	}
	var weights []float64
	if req.WeightColumn != "" {
		weights, err = excel.ExtractWeights(frame, req.WeightColumn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to extract sample weights")
		}
	}

	reference, err := loadRegressor(req.ReferencePath, frame.Columns)
	if err != nil {
		return nil, err
	}
	models := make([]report.NamedModel, len(req.ModelPaths))
	for i, path := range req.ModelPaths {
		if models[i], err = loadRegressor(path, frame.Columns); err != nil {
			return nil, err
		}
	}

	scores, err := report.PoissonScores(ctx, frame, y, weights, reference, models)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scoring failed")
	}
	s.logger.Info("scored %d models against %s over %d rows", len(models), reference.Name, frame.RowCount())
	return scores, nil
}

// loadFrame reads a CSV, XLSX or JSON data file
func (s *InteractionService) loadFrame(path, sheet, jsonPath string) (*dataset.Frame, error) {
	readerConfig := excel.DefaultExcelConfig()
	readerConfig.FilePath = path
	readerConfig.Sheet = sheet
	readerConfig.DataPath = jsonPath
	frame, err := excel.NewDataReaderWithConfig(readerConfig).WithLogger(s.logger).ReadFrame()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to load data from %s", path))
	}
	return frame, nil
}

// loadRegressor builds a model from its specification file, named after the file
func loadRegressor(path string, columns []string) (report.NamedModel, error) {
	spec, err := model.LoadSpec(path)
	if err != nil {
		return report.NamedModel{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	m, err := spec.Build(columns)
	if err != nil {
		return report.NamedModel{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	regressor, ok := m.(ports.Regressor)
	if !ok {
		return report.NamedModel{}, errors.WithCode(errors.CodeUnsupportedModel,
			fmt.Errorf("%w: %s model %s does not predict a single value", core.ErrUnsupportedModel, spec.Kind, path))
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return report.NamedModel{Name: name, Model: regressor}, nil
}

// GetRun retrieves a stored run
func (s *InteractionService) GetRun(ctx context.Context, id core.RunID) (*models.InteractionRun, error) {
	if s.runs == nil {
		return nil, errors.NotFound("run storage")
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, errors.WithCode(errors.CodeNotFound, err)
		}
		return nil, errors.DatabaseError("failed to get run", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs
func (s *InteractionService) ListRuns(ctx context.Context, limit int) ([]*models.InteractionRun, error) {
	if s.runs == nil {
		return nil, errors.NotFound("run storage")
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	return runs, nil
}

// newRun flattens a result into a run record with one pair record per output
func newRun(id core.RunID, req ComputeRequest, result *interaction.Result, seed uint64, nMax int, eps float64) *models.InteractionRun {
	storedSeed := int64(seed)
	run := &models.InteractionRun{
		ID:        id.UUID(),
		Source:    req.Source,
		ModelKind: req.ModelKind,
		RowCount:  req.Frame.RowCount(),
		RowsUsed:  len(result.SampledRows),
		NMax:      nMax,
		Seed:      &storedSeed,
		Eps:       eps,
		OutputDim: result.OutputDim,
		CreatedAt: time.Now().UTC(),
		Pairs:     make([]models.PairRecord, 0, result.Len()*result.OutputDim),
	}

	for i, rec := range result.Records() {
		for c := 0; c < result.OutputDim; c++ {
			run.Pairs = append(run.Pairs, models.PairRecord{
				RunID:       run.ID,
				Position:    i,
				FeatureA:    rec.Pair.First.String(),
				FeatureB:    rec.Pair.Second.String(),
				Output:      c,
				HSquared:    rec.HSquared[c],
				Numerator:   rec.Numerator[c],
				Denominator: rec.Denominator[c],
			})
		}
	}
	return run
}

// capped lowers v to limit when a limit is configured
func (s *InteractionService) capped(name string, v, limit int) int {
	if limit > 0 && v > limit {
		s.logger.Warn("%s %d exceeds the configured maximum, using %d", name, v, limit)
		return limit
	}
	return v
}

func valueOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
