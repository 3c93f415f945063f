// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockContainerRegistry struct {
	mock.Mock
}

func NewMockContainerRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockContainerRegistry {
	m := &MockContainerRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContainerRegistry) Upsert(ctx context.Context, records []model.TareRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockContainerRegistry) Lookup(ctx context.Context, id string) (model.Tare, error) {
	args := m.Called(ctx, id)
	tare, _ := args.Get(0).(model.Tare)
	return tare, args.Error(1)
}

func (m *MockContainerRegistry) LookupMany(ctx context.Context, ids []string) (map[string]model.Tare, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Tare), args.Error(1)
}

func (m *MockContainerRegistry) ListUnknown(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBatchImporter struct {
	mock.Mock
}

func NewMockBatchImporter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBatchImporter {
	m := &MockBatchImporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBatchImporter) ImportBatch(ctx context.Context, file string) (int, error) {
	args := m.Called(ctx, file)
	return args.Int(0), args.Error(1)
}
