package service

import (
	"context"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/metrics"
	"github.com/gan-shmuel/weight-service/internal/repository"
	"github.com/rs/zerolog"
)

// AllDirections is the default filter of ListWeighings.
var AllDirections = []model.Direction{model.DirectionIn, model.DirectionOut, model.DirectionNone}

// WeighingService defines the session ledger operations.
type WeighingService interface {
	Record(ctx context.Context, req model.WeighingRequest) (model.WeighingResult, error)
	RecordEntry(ctx context.Context, truck string, gross int, containers []string, produce string, force bool) (model.EntryResult, error)
	RecordExit(ctx context.Context, truck string, tare int, containers []string) (model.ExitResult, error)
	RecordStandalone(ctx context.Context, gross int, containers []string, produce string) (model.EntryResult, error)
	GetSession(ctx context.Context, id int64) (model.SessionView, error)
	GetItem(ctx context.Context, id string, rng model.TimeRange) (model.ItemView, error)
	ListWeighings(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.WeighingView, error)
}

// NetCalculator computes the net weight of a closing session.
type NetCalculator interface {
	Compute(ctx context.Context, gross, truckTara int, containerIDs []string) (model.NetWeight, error)
}

// WeighingServiceImpl implements WeighingService.
type WeighingServiceImpl struct {
	tx         repository.TxRunner
	sessions   repository.SessionsRepositoryInterface
	registry   ContainerRegistry
	calculator NetCalculator
}

// NewWeighingService creates the session ledger service.
func NewWeighingService(
	tx repository.TxRunner,
	sessions repository.SessionsRepositoryInterface,
	registry ContainerRegistry,
	calculator NetCalculator,
) *WeighingServiceImpl {
	return &WeighingServiceImpl{
		tx:         tx,
		sessions:   sessions,
		registry:   registry,
		calculator: calculator,
	}
}

// Record dispatches a validated weighing on its direction.
func (s *WeighingServiceImpl) Record(ctx context.Context, req model.WeighingRequest) (model.WeighingResult, error) {
	start := time.Now()
	result := model.WeighingResult{Direction: req.Direction}

	var err error
	switch req.Direction {
	case model.DirectionIn:
		var entry model.EntryResult
		entry, err = s.RecordEntry(ctx, req.Truck, req.Weight, req.Containers, req.Produce, req.Force)
		result.Entry = &entry
	case model.DirectionOut:
		var exit model.ExitResult
		exit, err = s.RecordExit(ctx, req.Truck, req.Weight, req.Containers)
		result.Exit = &exit
	default:
		var entry model.EntryResult
		entry, err = s.RecordStandalone(ctx, req.Weight, req.Containers, req.Produce)
		result.Entry = &entry
	}

	outcome := "success"
	if err != nil {
		outcome = model.KindOf(err).String()
	}
	metrics.RecordWeighing(req.Direction.String(), outcome, time.Since(start))

	if err != nil {
		return model.WeighingResult{Direction: req.Direction}, err
	}
	return result, nil
}

// RecordEntry opens a session for truck. With force, an open session of the
// truck is overwritten in place and keeps its id.
func (s *WeighingServiceImpl) RecordEntry(ctx context.Context, truck string, gross int, containers []string, produce string, force bool) (model.EntryResult, error) {
	const op = "record entry"

	var result model.EntryResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.LockLedger(ctx); err != nil {
			return model.StoreError(op, err)
		}

		open, err := s.openEntry(ctx, op, truck)
		if err != nil {
			return err
		}

		if open != nil {
			if !force {
				return &model.Error{Kind: model.KindConflict, Op: op, Message: model.MsgActiveSession}
			}
			open.Bruto = &gross
			open.Containers = containers
			open.Produce = produce
			if err := s.sessions.ReplaceEntry(ctx, open); err != nil {
				return model.StoreError(op, err)
			}
			zerolog.Ctx(ctx).Info().
				Str("truck", truck).
				Int64("session", open.SessionID).
				Msg("open entry replaced by forced weighing")
			result = model.EntryResult{SessionID: open.SessionID, Truck: truck, Bruto: gross}
			return nil
		}

		e, err := s.insertNew(ctx, op, &model.Event{
			Truck:      truck,
			Direction:  model.DirectionIn,
			Bruto:      &gross,
			Containers: containers,
			Produce:    produce,
		})
		if err != nil {
			return err
		}
		result = model.EntryResult{SessionID: e.SessionID, Truck: truck, Bruto: gross}
		return nil
	})
	if err != nil {
		return model.EntryResult{}, model.StoreError(op, err)
	}
	return result, nil
}

// RecordExit closes the open session of truck and computes its net weight.
// Without containers the entry's container set is used.
func (s *WeighingServiceImpl) RecordExit(ctx context.Context, truck string, tare int, containers []string) (model.ExitResult, error) {
	const op = "record exit"

	var result model.ExitResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.LockLedger(ctx); err != nil {
			return model.StoreError(op, err)
		}

		open, err := s.openEntry(ctx, op, truck)
		if err != nil {
			return err
		}
		if open == nil {
			return &model.Error{Kind: model.KindNotFound, Op: op, Message: model.MsgNoOpenSession}
		}

		if len(containers) == 0 {
			containers = open.Containers
		}
		gross := 0
		if open.Bruto != nil {
			gross = *open.Bruto
		}

		net, err := s.calculator.Compute(ctx, gross, tare, containers)
		if err != nil {
			return err
		}

		exit := &model.Event{
			SessionID:  open.SessionID,
			Truck:      truck,
			Direction:  model.DirectionOut,
			Bruto:      open.Bruto,
			TruckTara:  &tare,
			Neto:       &net.Neto,
			Containers: containers,
			Produce:    open.Produce,
		}
		if err := s.sessions.Insert(ctx, exit); err != nil {
			return model.StoreError(op, err)
		}

		result = model.ExitResult{
			SessionID: open.SessionID,
			Truck:     truck,
			TruckTara: tare,
			Neto:      net.Neto,
		}
		return nil
	})
	if err != nil {
		return model.ExitResult{}, model.StoreError(op, err)
	}
	return result, nil
}

// RecordStandalone records a weighing not tied to a truck visit. It fails
// while the most recent ledger event is an open in.
func (s *WeighingServiceImpl) RecordStandalone(ctx context.Context, gross int, containers []string, produce string) (model.EntryResult, error) {
	const op = "record standalone"

	var result model.EntryResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.LockLedger(ctx); err != nil {
			return model.StoreError(op, err)
		}

		last, err := s.sessions.LastEvent(ctx)
		if err != nil {
			return model.StoreError(op, err)
		}
		if last != nil && last.Direction == model.DirectionIn {
			closed, err := s.sessions.HasExit(ctx, last.SessionID)
			if err != nil {
				return model.StoreError(op, err)
			}
			if !closed {
				zerolog.Ctx(ctx).Error().
					Str("truck", last.Truck).
					Int64("session", last.SessionID).
					Msg("standalone weighing rejected while an in session is open")
				return &model.Error{Kind: model.KindStateOrdering, Op: op, Message: model.MsgStandaloneOpen}
			}
		}

		e, err := s.insertNew(ctx, op, &model.Event{
			Truck:      model.NoTruck,
			Direction:  model.DirectionNone,
			Bruto:      &gross,
			Containers: containers,
			Produce:    produce,
		})
		if err != nil {
			return err
		}
		result = model.EntryResult{SessionID: e.SessionID, Truck: model.NoTruck, Bruto: gross}
		return nil
	})
	if err != nil {
		return model.EntryResult{}, model.StoreError(op, err)
	}
	return result, nil
}

// openEntry returns the newest open in of truck. Older open entries are
// reported as orphaned and left untouched.
func (s *WeighingServiceImpl) openEntry(ctx context.Context, op, truck string) (*model.Event, error) {
	entries, err := s.sessions.OpenEntries(ctx, truck)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	if len(entries) > 1 {
		orphaned := make([]int64, 0, len(entries)-1)
		for _, e := range entries[1:] {
			orphaned = append(orphaned, e.SessionID)
		}
		zerolog.Ctx(ctx).Warn().
			Str("truck", truck).
			Int64("session", entries[0].SessionID).
			Ints64("orphaned_sessions", orphaned).
			Msg("truck has several open sessions, using the newest")
		metrics.RecordOrphanedSessions(len(orphaned))
	}
	open := entries[0]
	return &open, nil
}

func (s *WeighingServiceImpl) insertNew(ctx context.Context, op string, e *model.Event) (*model.Event, error) {
	id, err := s.sessions.NextSessionID(ctx)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	e.SessionID = id
	if err := s.sessions.Insert(ctx, e); err != nil {
		return nil, model.StoreError(op, err)
	}
	return e, nil
}

// GetSession returns the merged view of one session.
func (s *WeighingServiceImpl) GetSession(ctx context.Context, id int64) (model.SessionView, error) {
	const op = "get session"

	events, err := s.sessions.SessionEvents(ctx, id)
	if err != nil {
		return model.SessionView{}, model.StoreError(op, err)
	}
	view, ok := model.MergeSession(events)
	if !ok {
		return model.SessionView{}, model.NotFoundf(op, "session %d not found", id)
	}
	return view, nil
}

// GetItem resolves id as a truck first, then as a registered container.
func (s *WeighingServiceImpl) GetItem(ctx context.Context, id string, rng model.TimeRange) (model.ItemView, error) {
	const op = "get item"

	if id == "" {
		return model.ItemView{}, model.Validationf(op, "item id is required")
	}

	if id != model.NoTruck {
		exists, err := s.sessions.TruckExists(ctx, id)
		if err != nil {
			return model.ItemView{}, model.StoreError(op, err)
		}
		if exists {
			return s.truckItem(ctx, op, id, rng)
		}
	}

	if !model.ValidContainerID(id) {
		return model.ItemView{}, model.NotFoundf(op, "item %s not found", id)
	}
	tare, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return model.ItemView{}, err
	}
	if tare.Status == model.TareNotRegistered {
		return model.ItemView{}, model.NotFoundf(op, "item %s not found", id)
	}

	sessions, err := s.sessions.ContainerSessions(ctx, id, rng)
	if err != nil {
		return model.ItemView{}, model.StoreError(op, err)
	}
	view := model.ItemView{ID: id, Tara: model.TaraUnknown, Sessions: nonNilIDs(sessions)}
	if tare.Status == model.TareKnown {
		view.Tara = tare.Weight
	}
	return view, nil
}

func (s *WeighingServiceImpl) truckItem(ctx context.Context, op, truck string, rng model.TimeRange) (model.ItemView, error) {
	tara, err := s.sessions.LastTruckTara(ctx, truck)
	if err != nil {
		return model.ItemView{}, model.StoreError(op, err)
	}
	sessions, err := s.sessions.TruckSessions(ctx, truck, rng)
	if err != nil {
		return model.ItemView{}, model.StoreError(op, err)
	}
	view := model.ItemView{ID: truck, Tara: model.TaraUnknown, Sessions: nonNilIDs(sessions)}
	if tara != nil {
		view.Tara = *tara
	}
	return view, nil
}

// ListWeighings returns the events in rng, newest first. An empty directions
// filter means all directions.
func (s *WeighingServiceImpl) ListWeighings(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.WeighingView, error) {
	if len(directions) == 0 {
		directions = AllDirections
	}
	events, err := s.sessions.List(ctx, rng, directions)
	if err != nil {
		return nil, model.StoreError("list weighings", err)
	}

	views := make([]model.WeighingView, 0, len(events))
	for _, e := range events {
		containers := e.Containers
		if containers == nil {
			containers = []string{}
		}
		views = append(views, model.WeighingView{
			ID:         e.ID,
			Session:    e.SessionID,
			Direction:  e.Direction.String(),
			Truck:      e.Truck,
			Bruto:      e.Bruto,
			Neto:       e.Neto,
			Produce:    e.Produce,
			Containers: containers,
			Timestamp:  e.CreatedAt.Format(model.TimeLayout),
		})
	}
	return views, nil
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
