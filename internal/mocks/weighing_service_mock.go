// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockWeighingService struct {
	mock.Mock
}

func NewMockWeighingService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWeighingService {
	m := &MockWeighingService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWeighingService) Record(ctx context.Context, req model.WeighingRequest) (model.WeighingResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(model.WeighingResult)
	return res, args.Error(1)
}

func (m *MockWeighingService) RecordEntry(ctx context.Context, truck string, gross int, containers []string, produce string, force bool) (model.EntryResult, error) {
	args := m.Called(ctx, truck, gross, containers, produce, force)
	res, _ := args.Get(0).(model.EntryResult)
	return res, args.Error(1)
}

func (m *MockWeighingService) RecordExit(ctx context.Context, truck string, tare int, containers []string) (model.ExitResult, error) {
	args := m.Called(ctx, truck, tare, containers)
	res, _ := args.Get(0).(model.ExitResult)
	return res, args.Error(1)
}

func (m *MockWeighingService) RecordStandalone(ctx context.Context, gross int, containers []string, produce string) (model.EntryResult, error) {
	args := m.Called(ctx, gross, containers, produce)
	res, _ := args.Get(0).(model.EntryResult)
	return res, args.Error(1)
}

func (m *MockWeighingService) GetSession(ctx context.Context, id int64) (model.SessionView, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(model.SessionView)
	return res, args.Error(1)
}

func (m *MockWeighingService) GetItem(ctx context.Context, id string, rng model.TimeRange) (model.ItemView, error) {
	args := m.Called(ctx, id, rng)
	res, _ := args.Get(0).(model.ItemView)
	return res, args.Error(1)
}

func (m *MockWeighingService) ListWeighings(ctx context.Context, rng model.TimeRange, directions []model.Direction) ([]model.WeighingView, error) {
	args := m.Called(ctx, rng, directions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WeighingView), args.Error(1)
}
