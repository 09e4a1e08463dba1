package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gohstat/domain/core"
	"gohstat/models"
	"gohstat/ports"

	"github.com/jmoiron/sqlx"
)

// pairBatchSize keeps one pair insert at 8 parameters per row well below
// PostgreSQL's limit of 65535 bind parameters per statement
const pairBatchSize = 1000

// runRepository implements ports.RunRepository on PostgreSQL
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Save inserts the run and its pair records in one transaction
func (r *runRepository) Save(ctx context.Context, run *models.InteractionRun) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO interaction_runs (
			id, source, model_kind, row_count, rows_used, n_max, seed, eps, output_dim, created_at
		) VALUES (
			:id, :source, :model_kind, :row_count, :rows_used, :n_max, :seed, :eps, :output_dim, :created_at
		)`, run)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for i := range run.Pairs {
		run.Pairs[i].RunID = run.ID
	}
	for _, span := range batches(len(run.Pairs), pairBatchSize) {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO interaction_pairs (
				run_id, position, feature_a, feature_b, output, h_squared, numerator, denominator
			) VALUES (
				:run_id, :position, :feature_a, :feature_b, :output, :h_squared, :numerator, :denominator
			)`, run.Pairs[span[0]:span[1]])
		if err != nil {
			return fmt.Errorf("failed to create pair records %d-%d: %w", span[0], span[1], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Get retrieves a run with its pair records in enumeration order
func (r *runRepository) Get(ctx context.Context, id core.RunID) (*models.InteractionRun, error) {
	var run models.InteractionRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, source, model_kind, row_count, rows_used, n_max, seed, eps, output_dim, created_at
		FROM interaction_runs WHERE id = $1`, id.UUID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	err = r.db.SelectContext(ctx, &run.Pairs, `
		SELECT run_id, position, feature_a, feature_b, output, h_squared, numerator, denominator
		FROM interaction_pairs
		WHERE run_id = $1
		ORDER BY position, output`, id.UUID())
	if err != nil {
		return nil, fmt.Errorf("failed to get pair records: %w", err)
	}

	return &run, nil
}

// List returns the most recent runs without their pair records
func (r *runRepository) List(ctx context.Context, limit int) ([]*models.InteractionRun, error) {
	if limit <= 0 {
		limit = 50
	}

	var runs []*models.InteractionRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, source, model_kind, row_count, rows_used, n_max, seed, eps, output_dim, created_at
		FROM interaction_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// batches splits [0, n) into consecutive [start, end) spans of at most size
func batches(n, size int) [][2]int {
	var spans [][2]int
	for start := 0; start < n; start += size {
		spans = append(spans, [2]int{start, min(start+size, n)})
	}
	return spans
}
