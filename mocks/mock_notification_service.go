package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/notify"
	"gradus/internal/port"
	"gradus/internal/service"
)

// MockNotificationService is a mock implementation of
// service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, input *service.NotifyInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationService) Badges(ctx context.Context, userID uuid.UUID, role domain.UserRole) (notify.BadgeCounts, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).(notify.BadgeCounts), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationService) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan port.Event, func(), error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan port.Event), args.Get(1).(func()), args.Error(2)
}
