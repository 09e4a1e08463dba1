package testkit

import (
	"context"
	"testing"
	"time"

	"gohstat/domain/core"
	"gohstat/models"
	"gohstat/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.RunRepository = (*InMemoryRunRepository)(nil)

func TestInMemoryRunRepository(t *testing.T) {
	repo := NewInMemoryRunRepository()
	ctx := context.Background()
	now := time.Now()

	first := &models.InteractionRun{ID: core.NewRunID().UUID(), Source: "a", CreatedAt: now.Add(-time.Minute),
		Pairs: []models.PairRecord{{FeatureA: "x0", FeatureB: "x1", HSquared: 0.5}}}
	second := &models.InteractionRun{ID: core.NewRunID().UUID(), Source: "b", CreatedAt: now}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, 2, repo.Len())

	got, err := repo.Get(ctx, core.RunID(first.ID))
	require.NoError(t, err)
	require.Len(t, got.Pairs, 1)
	assert.Equal(t, first.ID, got.Pairs[0].RunID)

	// Stored runs are copies
	got.Pairs[0].HSquared = 9
	again, _ := repo.Get(ctx, core.RunID(first.ID))
	assert.Equal(t, 0.5, again.Pairs[0].HSquared)

	runs, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b", runs[0].Source)

	_, err = repo.Get(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))
}
