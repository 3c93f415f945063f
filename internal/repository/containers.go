package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/lib/pq"
)

// ContainersRepository stores the container tare registry.
type ContainersRepository struct {
	pg *Postgres
}

// NewContainersRepository creates a containers repository.
func NewContainersRepository(pg *Postgres) *ContainersRepository {
	return &ContainersRepository{pg: pg}
}

// Upsert inserts or replaces each container; later entries win.
// Weights must already be in kilograms.
func (r *ContainersRepository) Upsert(ctx context.Context, containers []model.Container) error {
	q := r.pg.conn(ctx)
	for _, c := range containers {
		_, err := q.ExecContext(ctx, `
			INSERT INTO containers_registered (container_id, weight, unit)
			VALUES ($1, $2, $3)
			ON CONFLICT (container_id) DO UPDATE
			SET weight = EXCLUDED.weight, unit = EXCLUDED.unit`,
			c.ID, nullInt(c.Weight), model.UnitKg)
		if err != nil {
			return fmt.Errorf("upsert container %s: %w", c.ID, err)
		}
	}
	return nil
}

// Get returns one container, or nil when it is not registered.
func (r *ContainersRepository) Get(ctx context.Context, id string) (*model.Container, error) {
	var (
		c      model.Container
		weight sql.NullInt64
	)
	err := r.pg.conn(ctx).QueryRowContext(ctx,
		`SELECT container_id, weight, unit FROM containers_registered WHERE container_id = $1`, id,
	).Scan(&c.ID, &weight, &c.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get container %s: %w", id, err)
	}
	c.Weight = intFromNull(weight)
	return &c, nil
}

// GetMany returns the registered containers among ids keyed by id.
func (r *ContainersRepository) GetMany(ctx context.Context, ids []string) (map[string]model.Container, error) {
	out := make(map[string]model.Container, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pg.conn(ctx).QueryContext(ctx,
		`SELECT container_id, weight, unit FROM containers_registered WHERE container_id = ANY ($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get containers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      model.Container
			weight sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &weight, &c.Unit); err != nil {
			return nil, err
		}
		c.Weight = intFromNull(weight)
		out[c.ID] = c
	}
	return out, rows.Err()
}

// ListUnknown returns the ids of registered containers without a weight.
func (r *ContainersRepository) ListUnknown(ctx context.Context) ([]string, error) {
	rows, err := r.pg.conn(ctx).QueryContext(ctx,
		`SELECT container_id FROM containers_registered WHERE weight IS NULL ORDER BY container_id`)
	if err != nil {
		return nil, fmt.Errorf("list unknown containers: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
