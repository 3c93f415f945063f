// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockLogsRepository struct {
	mock.Mock
}

func NewMockLogsRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogsRepository {
	m := &MockLogsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLogsRepository) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepository) Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *MockLogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}
