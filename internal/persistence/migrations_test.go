package persistence

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationVersionsOrdered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_tasks.sql": {Data: []byte("SELECT 1")},
		"migrations/0001_users.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":      {Data: []byte("notes")},
	}

	versions, err := migrationVersions(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users.sql", "0002_tasks.sql"}, versions)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	versions, err := migrationVersions(migrationFiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users.sql", "0002_tasks.sql"}, versions)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.ErrorIs(t, RunMigrations(context.Background(), nil, zap.NewNop()), ErrNoPool)
}
