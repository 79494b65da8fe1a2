package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// MockGroupService is a mock implementation of service.GroupService.
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) Create(ctx context.Context, input *service.CreateGroupInput, actorID uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, input, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) List(ctx context.Context, offset, limit int) ([]domain.Group, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Group), args.Int(1), args.Error(2)
}

func (m *MockGroupService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupService) Update(ctx context.Context, id uuid.UUID, input *service.UpdateGroupInput) (*domain.Group, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupService) Members(ctx context.Context, groupID uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockGroupService) AddMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error {
	args := m.Called(ctx, groupID, userID, actorID, actorRole)
	return args.Error(0)
}

func (m *MockGroupService) RemoveMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error {
	args := m.Called(ctx, groupID, userID, actorID, actorRole)
	return args.Error(0)
}

func (m *MockGroupService) ChangeLeader(ctx context.Context, groupID, newLeaderID uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, groupID, newLeaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}
