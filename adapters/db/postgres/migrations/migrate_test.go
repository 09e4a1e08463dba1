package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMigrationFiles(t *testing.T) {
	m := &Migrator{files: fstest.MapFS{
		"002_add_index.up.sql":        {Data: []byte("CREATE INDEX ...")},
		"001_interaction_runs.up.sql": {Data: []byte("CREATE TABLE ...")},
		"001_interaction_runs.down.sql": {
			Data: []byte("DROP TABLE ..."),
		},
		"003_legacy.sql": {Data: []byte("SELECT 1")},
		"README.md":      {Data: []byte("not a migration")},
		"invalid.sql":    {Data: []byte("skipped")},
		"004_orphan.down.sql": {
			Data: []byte("DROP TABLE orphan"),
		},
	}}

	files, err := m.findMigrationFiles()
	require.NoError(t, err)

	assert.Equal(t, []MigrationFile{
		{Version: "001", Name: "interaction_runs", UpPath: "001_interaction_runs.up.sql", DownPath: "001_interaction_runs.down.sql"},
		{Version: "002", Name: "add_index", UpPath: "002_add_index.up.sql"},
		{Version: "003", Name: "legacy", UpPath: "003_legacy.sql"},
	}, files)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := NewMigrator(nil).findMigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", files[0].Version)
	assert.NotEmpty(t, files[0].DownPath)
}

func TestCalculateChecksum(t *testing.T) {
	a := calculateChecksum([]byte("CREATE TABLE a ()"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, calculateChecksum([]byte("CREATE TABLE a ()")))
	assert.NotEqual(t, a, calculateChecksum([]byte("CREATE TABLE b ()")))
}
