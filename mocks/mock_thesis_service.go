package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// MockThesisService is a mock implementation of service.ThesisService.
type MockThesisService struct {
	mock.Mock
}

func (m *MockThesisService) CreateFromTopic(ctx context.Context, group *domain.Group, topic *domain.TopicProposal, actorID uuid.UUID) (*domain.Thesis, error) {
	args := m.Called(ctx, group, topic, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockThesisService) GetByID(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error) {
	args := m.Called(ctx, thesisID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockThesisService) GetByGroup(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error) {
	args := m.Called(ctx, groupID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockThesisService) UpdateDetails(ctx context.Context, input *service.UpdateThesisInput) (*domain.Thesis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}
