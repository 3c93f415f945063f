// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxRunner records RunInTx calls and runs fn unless the expectation
// returns an error first.
type MockTxRunner struct {
	mock.Mock
}

func (m *MockTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// PassthroughTxRunner runs fn directly without expectations.
type PassthroughTxRunner struct {
	Calls int
}

func (p *PassthroughTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.Calls++
	return fn(ctx)
}
