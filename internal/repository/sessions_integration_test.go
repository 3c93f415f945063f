//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func newEntry(sessionID int64, truck string, bruto int) *model.Event {
	return &model.Event{
		SessionID:  sessionID,
		Truck:      truck,
		Direction:  model.DirectionIn,
		Bruto:      intp(bruto),
		Containers: []string{"C-1", "C-2"},
		Produce:    "orange",
	}
}

func TestSessionsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pg := setupPostgres(t)
	repo := NewSessionsRepository(pg)

	var sessionID int64

	t.Run("lock requires transaction", func(t *testing.T) {
		assert.ErrorIs(t, repo.LockLedger(ctx), ErrNoTransaction)
	})

	t.Run("session ids are monotonic", func(t *testing.T) {
		a, err := repo.NextSessionID(ctx)
		require.NoError(t, err)
		b, err := repo.NextSessionID(ctx)
		require.NoError(t, err)
		assert.Greater(t, b, a)
	})

	t.Run("insert entry", func(t *testing.T) {
		id, err := repo.NextSessionID(ctx)
		require.NoError(t, err)
		sessionID = id

		e := newEntry(id, "T-100", 15000)
		require.NoError(t, repo.Insert(ctx, e))
		assert.NotZero(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())

		open, err := repo.OpenEntries(ctx, "T-100")
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, sessionID, open[0].SessionID)
		assert.Equal(t, []string{"C-1", "C-2"}, open[0].Containers)
		assert.Equal(t, 15000, *open[0].Bruto)
		assert.Nil(t, open[0].TruckTara)
	})

	t.Run("replace entry keeps session id", func(t *testing.T) {
		open, err := repo.OpenEntries(ctx, "T-100")
		require.NoError(t, err)
		e := open[0]
		e.Bruto = intp(16000)
		e.Containers = []string{"C-3"}
		require.NoError(t, repo.ReplaceEntry(ctx, &e))

		events, err := repo.SessionEvents(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 16000, *events[0].Bruto)
		assert.Equal(t, []string{"C-3"}, events[0].Containers)
	})

	t.Run("last event is the entry", func(t *testing.T) {
		last, err := repo.LastEvent(ctx)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, model.DirectionIn, last.Direction)

		closed, err := repo.HasExit(ctx, sessionID)
		require.NoError(t, err)
		assert.False(t, closed)
	})

	t.Run("exit closes session", func(t *testing.T) {
		out := &model.Event{
			SessionID: sessionID, Truck: "T-100", Direction: model.DirectionOut,
			TruckTara: intp(5000), Neto: intp(10500),
		}
		require.NoError(t, repo.Insert(ctx, out))

		open, err := repo.OpenEntries(ctx, "T-100")
		require.NoError(t, err)
		assert.Empty(t, open)

		closed, err := repo.HasExit(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, closed)

		tara, err := repo.LastTruckTara(ctx, "T-100")
		require.NoError(t, err)
		require.NotNil(t, tara)
		assert.Equal(t, 5000, *tara)
	})

	t.Run("truck lookups", func(t *testing.T) {
		exists, err := repo.TruckExists(ctx, "T-100")
		require.NoError(t, err)
		assert.True(t, exists)

		tara, err := repo.LastTruckTara(ctx, "T-404")
		require.NoError(t, err)
		assert.Nil(t, tara)

		rng := model.TimeRange{From: time.Now().Add(-time.Hour), To: time.Now().Add(time.Hour)}
		ids, err := repo.TruckSessions(ctx, "T-100", rng)
		require.NoError(t, err)
		assert.Equal(t, []int64{sessionID}, ids)

		ids, err = repo.ContainerSessions(ctx, "C-3", rng)
		require.NoError(t, err)
		assert.Equal(t, []int64{sessionID}, ids)

		past := model.TimeRange{From: time.Now().Add(-2 * time.Hour), To: time.Now().Add(-time.Hour)}
		ids, err = repo.TruckSessions(ctx, "T-100", past)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("list filters directions", func(t *testing.T) {
		rng := model.TimeRange{From: time.Now().Add(-time.Hour), To: time.Now().Add(time.Hour)}

		all, err := repo.List(ctx, rng, []model.Direction{model.DirectionIn, model.DirectionOut, model.DirectionNone})
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, model.DirectionOut, all[0].Direction)

		outs, err := repo.List(ctx, rng, []model.Direction{model.DirectionOut})
		require.NoError(t, err)
		require.Len(t, outs, 1)
		assert.Equal(t, 10500, *outs[0].Neto)
	})
}

func TestSessionsRepository_LedgerLockSerialises(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pg := setupPostgres(t)
	repo := NewSessionsRepository(pg)

	// Concurrent check-then-insert under the ledger lock leaves one open in.
	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pg.RunInTx(ctx, func(ctx context.Context) error {
				if err := repo.LockLedger(ctx); err != nil {
					return err
				}
				open, err := repo.OpenEntries(ctx, "T-RACE")
				if err != nil || len(open) > 0 {
					return err
				}
				id, err := repo.NextSessionID(ctx)
				if err != nil {
					return err
				}
				if err := repo.Insert(ctx, newEntry(id, "T-RACE", 1000)); err != nil {
					return err
				}
				mu.Lock()
				inserted++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	open, err := repo.OpenEntries(ctx, "T-RACE")
	require.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, 1, inserted)
}

func TestSessionsRepository_LastEventFollowsLockOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pg := setupPostgres(t)
	repo := NewSessionsRepository(pg)

	started := make(chan struct{})
	otherDone := make(chan struct{})

	var late model.Event
	errc := make(chan error, 1)
	go func() {
		errc <- pg.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := repo.LastEvent(ctx); err != nil {
				return err
			}
			close(started)
			<-otherDone
			if err := repo.LockLedger(ctx); err != nil {
				return err
			}
			id, err := repo.NextSessionID(ctx)
			if err != nil {
				return err
			}
			late = *newEntry(id, "T-LATE", 2000)
			return repo.Insert(ctx, &late)
		})
	}()

	<-started
	var early model.Event
	require.NoError(t, pg.RunInTx(ctx, func(ctx context.Context) error {
		if err := repo.LockLedger(ctx); err != nil {
			return err
		}
		id, err := repo.NextSessionID(ctx)
		if err != nil {
			return err
		}
		early = *newEntry(id, "T-EARLY", 1000)
		return repo.Insert(ctx, &early)
	}))
	close(otherDone)
	require.NoError(t, <-errc)

	assert.True(t, late.CreatedAt.After(early.CreatedAt), "stamped after the lock, not at transaction start")
	last, err := repo.LastEvent(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "T-LATE", last.Truck)
}
