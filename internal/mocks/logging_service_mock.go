// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockLoggingService struct {
	mock.Mock
}

func NewMockLoggingService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLoggingService {
	m := &MockLoggingService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) History(ctx context.Context, opts model.LogQueryOptions) (model.LogPage, error) {
	args := m.Called(ctx, opts)
	page, _ := args.Get(0).(model.LogPage)
	return page, args.Error(1)
}
