package ports

import (
	"context"

	"gohstat/domain/core"
	"gohstat/models"
)

// RunRepository persists interaction-statistic runs
type RunRepository interface {
	// Save stores a run and its pair statistics
	Save(ctx context.Context, run *models.InteractionRun) error

	// Get retrieves a run with its pair statistics
	Get(ctx context.Context, id core.RunID) (*models.InteractionRun, error)

	// List returns the most recent runs without pair statistics
	List(ctx context.Context, limit int) ([]*models.InteractionRun, error)
}
