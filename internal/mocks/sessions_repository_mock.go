// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockSessionsRepository struct {
	mock.Mock
}

func NewMockSessionsRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionsRepository {
	m := &MockSessionsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionsRepository) LockLedger(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSessionsRepository) NextSessionID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

func (m *MockSessionsRepository) OpenEntries(ctx context.Context, truck string) ([]model.Event, error) {
	args := m.Called(ctx, truck)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockSessionsRepository) LastEvent(ctx context.Context) (*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockSessionsRepository) HasExit(ctx context.Context, sessionID int64) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionsRepository) Insert(ctx context.Context, e *model.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockSessionsRepository) ReplaceEntry(ctx context.Context, e *model.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockSessionsRepository) SessionEvents(ctx context.Context, sessionID int64) ([]model.Event, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockSessionsRepository) TruckExists(ctx context.Context, truck string) (bool, error) {
	args := m.Called(ctx, truck)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionsRepository) LastTruckTara(ctx context.Context, truck string) (*int, error) {
	args := m.Called(ctx, truck)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockSessionsRepository) TruckSessions(ctx context.Context, truck string, rng model.TimeRange) ([]int64, error) {
	args := m.Called(ctx, truck, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSessionsRepository) ContainerSessions(ctx context.Context, containerID string, rng model.TimeRange) ([]int64, error) {
	args := m.Called(ctx, containerID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSessionsRepository) List(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.Event, error) {
	args := m.Called(ctx, rng, directions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}
