package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gohstat/domain/core"
	"gohstat/models"
)

// InMemoryRunRepository implements ports.RunRepository with in-memory storage.
// It backs the API and service tests and the CLI when no database is configured.
type InMemoryRunRepository struct {
	runs map[core.RunID]*models.InteractionRun
	mu   sync.RWMutex
}

func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{
		runs: make(map[core.RunID]*models.InteractionRun),
	}
}

func (s *InMemoryRunRepository) Save(ctx context.Context, run *models.InteractionRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *run
	stored.Pairs = append([]models.PairRecord(nil), run.Pairs...)
	for i := range stored.Pairs {
		stored.Pairs[i].RunID = run.ID
	}
	s.runs[core.RunID(run.ID)] = &stored
	return nil
}

func (s *InMemoryRunRepository) Get(ctx context.Context, id core.RunID) (*models.InteractionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	out := *run
	out.Pairs = append([]models.PairRecord(nil), run.Pairs...)
	return &out, nil
}

func (s *InMemoryRunRepository) List(ctx context.Context, limit int) ([]*models.InteractionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*models.InteractionRun, 0, len(s.runs))
	for _, run := range s.runs {
		out := *run
		out.Pairs = nil
		runs = append(runs, &out)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Len returns the number of stored runs
func (s *InMemoryRunRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
