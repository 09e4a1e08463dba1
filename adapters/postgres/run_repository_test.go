package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"gohstat/adapters/db/postgres/migrations"
	"gohstat/domain/core"
	"gohstat/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("HSTAT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HSTAT_TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.NewMigrator(db.DB).Up(context.Background())
	require.NoError(t, err)
	return db
}

func TestRunRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	seed := int64(42)
	id := core.NewRunID()
	run := &models.InteractionRun{
		ID:        id.UUID(),
		Source:    "test.csv",
		ModelKind: "linear",
		RowCount:  1000,
		RowsUsed:  500,
		NMax:      500,
		Seed:      &seed,
		Eps:       1e-10,
		OutputDim: 1,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Pairs: []models.PairRecord{
			{Position: 0, FeatureA: "x0", FeatureB: "x1", HSquared: 0.3, Numerator: 0.03, Denominator: 0.1},
			{Position: 1, FeatureA: "x0", FeatureB: "x2", Denominator: 0.2},
		},
	}
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Source, got.Source)
	assert.Equal(t, seed, *got.Seed)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Pairs, 2)
	assert.Equal(t, "x1", got.Pairs[0].FeatureB)
	assert.Equal(t, 0.3, got.Pairs[0].HSquared)
	assert.Equal(t, run.ID, got.Pairs[1].RunID)

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
	assert.Empty(t, runs[0].Pairs)
}

func TestRunRepositoryNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepository(db)

	_, err := repo.Get(context.Background(), core.NewRunID())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestBatches(t *testing.T) {
	tests := []struct {
		n, size int
		want    [][2]int
	}{
		{0, 1000, nil},
		{1, 1000, [][2]int{{0, 1}}},
		{1000, 1000, [][2]int{{0, 1000}}},
		{2500, 1000, [][2]int{{0, 1000}, {1000, 2000}, {2000, 2500}}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, batches(tt.n, tt.size), "n=%d", tt.n)
	}
	assert.LessOrEqual(t, pairBatchSize*8, 65535)
}

func TestRunRepositoryManyPairs(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	// 50 features and 10 outputs: 12250 pair rows, 98000 parameters in one statement
	const pairs, outputs = 1225, 10
	id := core.NewRunID()
	run := &models.InteractionRun{
		ID:        id.UUID(),
		Source:    "wide.csv",
		ModelKind: "linear",
		RowCount:  100,
		RowsUsed:  100,
		NMax:      500,
		OutputDim: outputs,
		CreatedAt: time.Now().UTC(),
	}
	for p := 0; p < pairs; p++ {
		for c := 0; c < outputs; c++ {
			run.Pairs = append(run.Pairs, models.PairRecord{Position: p, FeatureA: "a", FeatureB: "b", Output: c, Denominator: 1})
		}
	}
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Pairs, pairs*outputs)
	assert.Equal(t, pairs-1, got.Pairs[len(got.Pairs)-1].Position)
}
