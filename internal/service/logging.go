package service

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/repository"
	"golang.org/x/sync/errgroup"
)

// LoggingService persists request and audit log entries and serves the
// audit history of trucks and sessions.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error

	// History returns one page of matching entries, newest first, with the
	// total number of matches.
	History(ctx context.Context, opts model.LogQueryOptions) (model.LogPage, error)
}

// LoggingServiceImpl implements LoggingService on a log store.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	return s.repo.Insert(ctx, entry)
}

// CreateLogs skips nil entries. An empty batch is a no-op.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	batch := make([]*model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			batch = append(batch, e)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.Insert(ctx, batch...)
}

// History reads the page and the total concurrently.
func (s *LoggingServiceImpl) History(ctx context.Context, opts model.LogQueryOptions) (model.LogPage, error) {
	const op = "audit history"

	opts = opts.Normalize()
	if opts.StartTime != nil && opts.EndTime != nil && opts.StartTime.After(*opts.EndTime) {
		return model.LogPage{}, model.Validationf(op, "from must not be after to")
	}

	page := model.LogPage{Limit: opts.Limit, Offset: opts.Skip}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.repo.Find(gctx, opts)
		page.Entries = entries
		return err
	})
	g.Go(func() error {
		total, err := s.repo.Count(gctx, opts)
		page.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return model.LogPage{}, model.StoreError(op, err)
	}

	if page.Entries == nil {
		page.Entries = []model.LogEntry{}
	}
	return page, nil
}
