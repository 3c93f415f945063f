//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/gan-shmuel/weight-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestMain shares one Postgres and one MongoDB container across the package.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMain(context.Background(), m, testutil.Containers{Postgres: true, Mongo: true}))
}

// setupPostgres opens a migrated, empty database unique to the test.
func setupPostgres(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	cfg := DefaultPostgresConfig(testutil.NewPostgresDatabase(t))
	cfg.ConnectRetries = 2
	pg, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pg.Migrate(ctx))
	t.Cleanup(func() { _ = pg.Close() })
	return pg
}

// setupMongo opens a MongoDB database unique to the test.
func setupMongo(t *testing.T) *MongoDB {
	t.Helper()
	db, err := OpenMongoDB(context.Background(), testutil.GetSharedMongoURI(), testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}
