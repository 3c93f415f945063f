package service

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/repository"
)

// ContainerRegistry defines the container tare registry operations.
type ContainerRegistry interface {
	TareLookup
	// Upsert stores records converted to kilograms. Last write wins.
	Upsert(ctx context.Context, records []model.TareRecord) error
	// Lookup returns the tare of one container.
	Lookup(ctx context.Context, id string) (model.Tare, error)
	// ListUnknown returns registered containers without a measured weight.
	ListUnknown(ctx context.Context) ([]string, error)
}

// ContainerRegistryImpl implements ContainerRegistry on the containers store.
type ContainerRegistryImpl struct {
	repo repository.ContainersRepositoryInterface
}

// NewContainerRegistry creates a registry backed by repo.
func NewContainerRegistry(repo repository.ContainersRepositoryInterface) *ContainerRegistryImpl {
	return &ContainerRegistryImpl{repo: repo}
}

// Upsert validates and stores records. Calls inside a transaction carried
// by ctx join it.
func (r *ContainerRegistryImpl) Upsert(ctx context.Context, records []model.TareRecord) error {
	const op = "upsert containers"

	containers := make([]model.Container, 0, len(records))
	for _, rec := range records {
		c, err := toContainer(op, rec)
		if err != nil {
			return err
		}
		containers = append(containers, c)
	}
	if len(containers) == 0 {
		return nil
	}
	if err := r.repo.Upsert(ctx, containers); err != nil {
		return model.StoreError(op, err)
	}
	return nil
}

func toContainer(op string, rec model.TareRecord) (model.Container, error) {
	if !model.ValidContainerID(rec.ID) {
		return model.Container{}, model.Validationf(op, "invalid container id %q", rec.ID)
	}
	unit, err := model.ParseUnit(rec.Unit)
	if err != nil {
		return model.Container{}, model.Validationf(op, "container %s: %v", rec.ID, err)
	}
	c := model.Container{ID: rec.ID, Unit: model.UnitKg}
	if rec.Weight != nil {
		kg, ok := model.ToKilograms(*rec.Weight, unit)
		if !ok {
			return model.Container{}, model.Validationf(op, "container %s: weight %v is out of range", rec.ID, *rec.Weight)
		}
		c.Weight = &kg
	}
	return c, nil
}

// Lookup returns the tare of id with its registry status.
func (r *ContainerRegistryImpl) Lookup(ctx context.Context, id string) (model.Tare, error) {
	c, err := r.repo.Get(ctx, id)
	if err != nil {
		return model.Tare{}, model.StoreError("lookup container", err)
	}
	return tareOf(id, c), nil
}

// LookupMany returns the tare of every id, including unregistered ones.
func (r *ContainerRegistryImpl) LookupMany(ctx context.Context, ids []string) (map[string]model.Tare, error) {
	found, err := r.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, model.StoreError("lookup containers", err)
	}
	tares := make(map[string]model.Tare, len(ids))
	for _, id := range ids {
		if c, ok := found[id]; ok {
			tares[id] = tareOf(id, &c)
			continue
		}
		tares[id] = tareOf(id, nil)
	}
	return tares, nil
}

// ListUnknown returns registered container ids with a null weight.
func (r *ContainerRegistryImpl) ListUnknown(ctx context.Context) ([]string, error) {
	ids, err := r.repo.ListUnknown(ctx)
	if err != nil {
		return nil, model.StoreError("list unknown containers", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func tareOf(id string, c *model.Container) model.Tare {
	switch {
	case c == nil:
		return model.Tare{ContainerID: id, Status: model.TareNotRegistered}
	case c.Weight == nil:
		return model.Tare{ContainerID: id, Status: model.TareUnmeasured}
	default:
		return model.Tare{ContainerID: id, Weight: *c.Weight, Status: model.TareKnown}
	}
}
