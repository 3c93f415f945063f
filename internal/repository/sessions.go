package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/lib/pq"
)

// ledgerLockKey is the advisory lock key serialising ledger writes.
const ledgerLockKey int64 = 0x5745494748 // "WEIGH"

const eventColumns = `id, session_id, truck, direction, bruto, truck_tara, neto, containers, produce, created_at`

// SessionsRepository stores weighing events in the sessions table.
type SessionsRepository struct {
	pg *Postgres
}

// NewSessionsRepository creates a sessions repository.
func NewSessionsRepository(pg *Postgres) *SessionsRepository {
	return &SessionsRepository{pg: pg}
}

// LockLedger takes the transaction-scoped ledger lock. It must run inside
// RunInTx; the lock is released on commit or rollback.
func (r *SessionsRepository) LockLedger(ctx context.Context) error {
	if !inTx(ctx) {
		return ErrNoTransaction
	}
	_, err := r.pg.conn(ctx).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey)
	if err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	return nil
}

// NextSessionID allocates a new session id from session_id_seq.
func (r *SessionsRepository) NextSessionID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.pg.conn(ctx).QueryRowContext(ctx, `SELECT nextval('session_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next session id: %w", err)
	}
	return id, nil
}

// OpenEntries returns the in events of truck that have no matching out
// event, newest first.
func (r *SessionsRepository) OpenEntries(ctx context.Context, truck string) ([]model.Event, error) {
	rows, err := r.pg.conn(ctx).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM sessions s
		WHERE s.truck = $1 AND s.direction = 'in'
		  AND NOT EXISTS (
			SELECT 1 FROM sessions o
			WHERE o.session_id = s.session_id AND o.direction = 'out'
		  )
		ORDER BY s.created_at DESC, s.id DESC`, truck)
	if err != nil {
		return nil, fmt.Errorf("open entries: %w", err)
	}
	return scanEvents(rows)
}

// LastEvent returns the most recent ledger row, or nil on an empty ledger.
func (r *SessionsRepository) LastEvent(ctx context.Context) (*model.Event, error) {
	row := r.pg.conn(ctx).QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM sessions
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last event: %w", err)
	}
	return &e, nil
}

// HasExit reports whether sessionID already has an out event.
func (r *SessionsRepository) HasExit(ctx context.Context, sessionID int64) (bool, error) {
	var exists bool
	err := r.pg.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE session_id = $1 AND direction = 'out')`,
		sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has exit: %w", err)
	}
	return exists, nil
}

// Insert stores e and fills in its ID and CreatedAt.
func (r *SessionsRepository) Insert(ctx context.Context, e *model.Event) error {
	err := r.pg.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO sessions (session_id, truck, direction, bruto, truck_tara, neto, containers, produce)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		e.SessionID, e.Truck, e.Direction.String(),
		nullInt(e.Bruto), nullInt(e.TruckTara), nullInt(e.Neto),
		model.JoinContainers(e.Containers), produceOrDefault(e.Produce),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ReplaceEntry overwrites an open in event in place, keeping its session id.
func (r *SessionsRepository) ReplaceEntry(ctx context.Context, e *model.Event) error {
	err := r.pg.conn(ctx).QueryRowContext(ctx, `
		UPDATE sessions
		SET bruto = $2, containers = $3, produce = $4, created_at = clock_timestamp()
		WHERE id = $1 AND direction = 'in'
		RETURNING created_at`,
		e.ID, nullInt(e.Bruto), model.JoinContainers(e.Containers), produceOrDefault(e.Produce),
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("replace entry %d: %w", e.ID, err)
	}
	return nil
}

// SessionEvents returns the events of one session in insertion order.
func (r *SessionsRepository) SessionEvents(ctx context.Context, sessionID int64) ([]model.Event, error) {
	rows, err := r.pg.conn(ctx).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM sessions
		WHERE session_id = $1
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session events: %w", err)
	}
	return scanEvents(rows)
}

// TruckExists reports whether truck has any recorded event.
func (r *SessionsRepository) TruckExists(ctx context.Context, truck string) (bool, error) {
	var exists bool
	err := r.pg.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE truck = $1)`, truck).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("truck exists: %w", err)
	}
	return exists, nil
}

// LastTruckTara returns the most recent tare recorded for truck, or nil.
func (r *SessionsRepository) LastTruckTara(ctx context.Context, truck string) (*int, error) {
	var tara sql.NullInt64
	err := r.pg.conn(ctx).QueryRowContext(ctx, `
		SELECT truck_tara FROM sessions
		WHERE truck = $1 AND direction = 'out' AND truck_tara IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, truck).Scan(&tara)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last truck tara: %w", err)
	}
	return intFromNull(tara), nil
}

// TruckSessions returns the distinct session ids of truck with events in rng.
func (r *SessionsRepository) TruckSessions(ctx context.Context, truck string, rng model.TimeRange) ([]int64, error) {
	return r.sessionIDs(ctx, `
		SELECT DISTINCT session_id FROM sessions
		WHERE truck = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY session_id`, truck, rng.From, rng.To)
}

// ContainerSessions returns the distinct session ids whose container set
// includes containerID, restricted to events in rng.
func (r *SessionsRepository) ContainerSessions(ctx context.Context, containerID string, rng model.TimeRange) ([]int64, error) {
	return r.sessionIDs(ctx, `
		SELECT DISTINCT session_id FROM sessions
		WHERE $1 = ANY (string_to_array(containers, ','))
		  AND created_at BETWEEN $2 AND $3
		ORDER BY session_id`, containerID, rng.From, rng.To)
}

// List returns the events in rng with one of directions, newest first.
func (r *SessionsRepository) List(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.Event, error) {
	names := make([]string, len(directions))
	for i, d := range directions {
		names[i] = d.String()
	}
	rows, err := r.pg.conn(ctx).QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM sessions
		WHERE created_at BETWEEN $1 AND $2
		  AND direction = ANY ($3)
		ORDER BY created_at DESC, id DESC`, rng.From, rng.To, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return scanEvents(rows)
}

func (r *SessionsRepository) sessionIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.pg.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("session ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		e                      model.Event
		direction, containers  string
		bruto, truckTara, neto sql.NullInt64
		createdAt              time.Time
	)
	err := row.Scan(&e.ID, &e.SessionID, &e.Truck, &direction, &bruto, &truckTara, &neto, &containers, &e.Produce, &createdAt)
	if err != nil {
		return e, err
	}
	d, err := model.ParseDirection(direction)
	if err != nil {
		return e, err
	}
	e.Direction = d
	e.Bruto = intFromNull(bruto)
	e.TruckTara = intFromNull(truckTara)
	e.Neto = intFromNull(neto)
	e.Containers = model.SplitContainers(containers)
	e.CreatedAt = createdAt
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func produceOrDefault(p string) string {
	if strings.TrimSpace(p) == "" {
		return model.NoProduce
	}
	return p
}
