//go:build integration

package service

import (
	"context"
	"os"
	"testing"

	"github.com/gan-shmuel/weight-service/internal/repository"
	"github.com/gan-shmuel/weight-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMain(context.Background(), m, testutil.Containers{Postgres: true, Mongo: true}))
}

type ledger struct {
	pg       *repository.Postgres
	weighing *WeighingServiceImpl
	registry *ContainerRegistryImpl
	importer *BatchImporterImpl
	inputDir string
}

func setupLedger(t *testing.T) *ledger {
	t.Helper()
	ctx := context.Background()

	cfg := repository.DefaultPostgresConfig(testutil.NewPostgresDatabase(t))
	cfg.ConnectRetries = 2
	pg, err := repository.NewPostgres(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pg.Migrate(ctx))
	t.Cleanup(func() { _ = pg.Close() })

	registry := NewContainerRegistry(repository.NewContainersRepository(pg))
	dir := t.TempDir()
	return &ledger{
		pg:       pg,
		weighing: NewWeighingService(pg, repository.NewSessionsRepository(pg), registry, NewNetWeightCalculator(registry)),
		registry: registry,
		importer: NewBatchImporter(pg, registry, dir, 1<<20),
		inputDir: dir,
	}
}
