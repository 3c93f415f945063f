package repository

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
)

// TxRunner runs fn inside one store transaction carried by ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionsRepositoryInterface defines the ledger store operations.
type SessionsRepositoryInterface interface {
	LockLedger(ctx context.Context) error
	NextSessionID(ctx context.Context) (int64, error)
	OpenEntries(ctx context.Context, truck string) ([]model.Event, error)
	LastEvent(ctx context.Context) (*model.Event, error)
	HasExit(ctx context.Context, sessionID int64) (bool, error)
	Insert(ctx context.Context, e *model.Event) error
	ReplaceEntry(ctx context.Context, e *model.Event) error
	SessionEvents(ctx context.Context, sessionID int64) ([]model.Event, error)
	TruckExists(ctx context.Context, truck string) (bool, error)
	LastTruckTara(ctx context.Context, truck string) (*int, error)
	TruckSessions(ctx context.Context, truck string, rng model.TimeRange) ([]int64, error)
	ContainerSessions(ctx context.Context, containerID string, rng model.TimeRange) ([]int64, error)
	List(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.Event, error)
}

// ContainersRepositoryInterface defines the tare registry store operations.
type ContainersRepositoryInterface interface {
	Upsert(ctx context.Context, containers []model.Container) error
	Get(ctx context.Context, id string) (*model.Container, error)
	GetMany(ctx context.Context, ids []string) (map[string]model.Container, error)
	ListUnknown(ctx context.Context) ([]string, error)
}

// LogsRepositoryInterface defines the log sink operations.
type LogsRepositoryInterface interface {
	Insert(ctx context.Context, entries ...*model.LogEntry) error
	Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

var (
	_ TxRunner                      = (*Postgres)(nil)
	_ SessionsRepositoryInterface   = (*SessionsRepository)(nil)
	_ ContainersRepositoryInterface = (*ContainersRepository)(nil)
	_ LogsRepositoryInterface       = (*LogsRepository)(nil)
)
