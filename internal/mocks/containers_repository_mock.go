// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockContainersRepository struct {
	mock.Mock
}

func (m *MockContainersRepository) Upsert(ctx context.Context, containers []model.Container) error {
	args := m.Called(ctx, containers)
	return args.Error(0)
}

func (m *MockContainersRepository) Get(ctx context.Context, id string) (*model.Container, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Container), args.Error(1)
}

func (m *MockContainersRepository) GetMany(ctx context.Context, ids []string) (map[string]model.Container, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Container), args.Error(1)
}

func (m *MockContainersRepository) ListUnknown(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
