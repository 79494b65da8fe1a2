package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradus/internal/port"
)

// MockEventBus is a mock implementation of port.EventBus.
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event port.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, subject string) (<-chan port.Event, func(), error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan port.Event), args.Get(1).(func()), args.Error(2)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}
