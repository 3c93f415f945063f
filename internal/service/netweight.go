package service

import (
	"context"
	"fmt"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/rs/zerolog"
)

// TareLookup resolves container tares in bulk.
type TareLookup interface {
	LookupMany(ctx context.Context, ids []string) (map[string]model.Tare, error)
}

// NetWeightCalculator computes net cargo weight from the gross entry weight,
// the exit truck tare and the registered container tares.
type NetWeightCalculator struct {
	tares TareLookup
}

// NewNetWeightCalculator creates a calculator backed by tares.
func NewNetWeightCalculator(tares TareLookup) *NetWeightCalculator {
	return &NetWeightCalculator{tares: tares}
}

// Compute returns gross - truckTara - sum(container tare). Containers with no
// registry row or no measured weight count as zero and are reported in
// Unknown. A malformed container id fails with a computation error.
func (c *NetWeightCalculator) Compute(ctx context.Context, gross, truckTara int, containerIDs []string) (model.NetWeight, error) {
	const op = "compute net weight"

	for _, id := range containerIDs {
		if !model.ValidContainerID(id) {
			return model.NetWeight{}, &model.Error{
				Kind:    model.KindComputation,
				Op:      op,
				Message: fmt.Sprintf("malformed container id %q", id),
			}
		}
	}

	result := model.NetWeight{}
	if len(containerIDs) > 0 {
		tares, err := c.tares.LookupMany(ctx, containerIDs)
		if err != nil {
			return model.NetWeight{}, model.StoreError(op, err)
		}
		for _, id := range containerIDs {
			tare, ok := tares[id]
			if !ok || tare.Status != model.TareKnown {
				result.Unknown = append(result.Unknown, id)
				continue
			}
			result.ContainerTare += tare.Weight
		}
	}

	result.Neto = gross - truckTara - result.ContainerTare

	if len(result.Unknown) > 0 {
		zerolog.Ctx(ctx).Warn().
			Strs("containers", result.Unknown).
			Msg("containers without registered tare counted as zero")
	}
	metrics.RecordNetWeight(result.Neto, len(result.Unknown))

	return result, nil
}
