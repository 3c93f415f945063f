package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/gan-shmuel/weight-service/internal/service"
	"github.com/rs/zerolog/log"
)

// AsyncLoggerConfig sizes the log entry queue and its writers.
type AsyncLoggerConfig struct {
	QueueSize    int
	Workers      int
	BatchSize    int           // entries per insert, at most
	FlushTimeout time.Duration // per insert
}

// DefaultAsyncLoggerConfig returns the production queue settings.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		QueueSize:    1000,
		Workers:      4,
		BatchSize:    50,
		FlushTimeout: 5 * time.Second,
	}
}

// AsyncLoggerStats is a snapshot of queue counters.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger writes request and audit entries to the log sink off the
// request path. A full queue drops the entry; callers never block.
type AsyncLogger struct {
	sink      service.LoggingService
	queue     chan *model.LogEntry
	batchSize int
	timeout   time.Duration

	mu     sync.RWMutex // guards closed against sends on a closed queue
	closed bool
	done   sync.WaitGroup

	enqueued, dropped, written, failed atomic.Int64
}

// NewAsyncLogger starts cfg.Workers writers on sink. It returns nil for a
// nil sink.
func NewAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if sink == nil {
		return nil
	}
	al := &AsyncLogger{
		sink:      sink,
		queue:     make(chan *model.LogEntry, max(cfg.QueueSize, 0)),
		batchSize: max(cfg.BatchSize, 1),
		timeout:   cfg.FlushTimeout,
	}
	for range max(cfg.Workers, 1) {
		al.done.Add(1)
		go func() {
			defer al.done.Done()
			al.drain()
		}()
	}
	return al
}

// drain writes batches until the queue is closed and empty.
func (al *AsyncLogger) drain() {
	batch := make([]*model.LogEntry, 0, al.batchSize)
	for entry := range al.queue {
		batch = append(batch[:0], entry)
	more:
		for len(batch) < al.batchSize {
			select {
			case next, ok := <-al.queue:
				if !ok {
					break more
				}
				batch = append(batch, next)
			default:
				break more
			}
		}
		al.flush(batch)
	}
}

func (al *AsyncLogger) flush(batch []*model.LogEntry) {
	ctx := context.Background()
	if al.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, al.timeout)
		defer cancel()
	}

	var err error
	if len(batch) == 1 {
		err = al.sink.CreateLog(ctx, batch[0])
	} else {
		err = al.sink.CreateLogs(ctx, batch)
	}

	n := int64(len(batch))
	if err != nil {
		al.failed.Add(n)
		metrics.RecordLogQueue("failed", len(batch))
		log.Warn().Err(err).Int("entries", len(batch)).Msg("log sink write failed")
		return
	}
	al.written.Add(n)
	metrics.RecordLogQueue("written", len(batch))
}

// Log queues entry. It reports false when the entry was dropped because the
// queue is full or the logger is stopped.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	al.mu.RLock()
	defer al.mu.RUnlock()

	if !al.closed {
		select {
		case al.queue <- entry:
			al.enqueued.Add(1)
			metrics.RecordLogQueue("enqueued", 1)
			return true
		default:
		}
	}
	al.dropped.Add(1)
	metrics.RecordLogQueue("dropped", 1)
	return false
}

// Stop closes the queue and waits for the writers to flush it. Repeated
// calls return immediately.
func (al *AsyncLogger) Stop() {
	al.mu.Lock()
	if !al.closed {
		al.closed = true
		close(al.queue)
	}
	al.mu.Unlock()
	al.done.Wait()
}

// Stats returns the current counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

var (
	defaultQueue   *AsyncLogger
	defaultQueueMu sync.RWMutex
)

// InitAsyncLogger installs the process-wide logger, stopping any previous one.
func InitAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) {
	next := NewAsyncLogger(sink, cfg)

	defaultQueueMu.Lock()
	prev := defaultQueue
	defaultQueue = next
	defaultQueueMu.Unlock()

	if prev != nil {
		prev.Stop()
	}
}

// GetAsyncLogger returns the process-wide logger or nil.
func GetAsyncLogger() *AsyncLogger {
	defaultQueueMu.RLock()
	defer defaultQueueMu.RUnlock()
	return defaultQueue
}

// StopAsyncLogger flushes and removes the process-wide logger.
func StopAsyncLogger() {
	defaultQueueMu.Lock()
	prev := defaultQueue
	defaultQueue = nil
	defaultQueueMu.Unlock()

	if prev != nil {
		prev.Stop()
	}
}

// persist queues entry on the process-wide logger. Without one it writes
// from a short-lived goroutine.
func persist(sink service.LoggingService, entry *model.LogEntry) {
	if al := GetAsyncLogger(); al != nil {
		al.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.CreateLog(ctx, entry); err != nil {
			log.Warn().Err(err).Msg("log sink write failed")
		}
	}()
}
