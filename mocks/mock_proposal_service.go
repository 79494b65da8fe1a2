package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// MockProposalService is a mock implementation of service.ProposalService.
type MockProposalService struct {
	mock.Mock
}

func (m *MockProposalService) CreateSet(ctx context.Context, groupID, actorID uuid.UUID) (*domain.ProposalSet, error) {
	args := m.Called(ctx, groupID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalService) GetSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, error) {
	args := m.Called(ctx, setID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalService) ExportSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, *domain.Group, error) {
	args := m.Called(ctx, setID, actorID, role)
	var set *domain.ProposalSet
	if args.Get(0) != nil {
		set = args.Get(0).(*domain.ProposalSet)
	}
	var group *domain.Group
	if args.Get(1) != nil {
		group = args.Get(1).(*domain.Group)
	}
	return set, group, args.Error(2)
}

func (m *MockProposalService) ListSets(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) ([]domain.ProposalSet, error) {
	args := m.Called(ctx, groupID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProposalSet), args.Error(1)
}

func (m *MockProposalService) CanStartNewSet(ctx context.Context, groupID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProposalService) UpsertTopic(ctx context.Context, input *service.UpsertTopicInput) (*domain.TopicProposal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicProposal), args.Error(1)
}

func (m *MockProposalService) RemoveTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) error {
	args := m.Called(ctx, setID, topicID, actorID)
	return args.Error(0)
}

func (m *MockProposalService) SubmitSet(ctx context.Context, setID, actorID uuid.UUID) (*domain.ProposalSet, error) {
	args := m.Called(ctx, setID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalService) RecordDecision(ctx context.Context, input *service.DecisionInput) (*domain.ProposalSet, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalService) PromoteTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) (*domain.Thesis, error) {
	args := m.Called(ctx, setID, topicID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockProposalService) ReviewQueue(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.ProposalSet, int, error) {
	args := m.Called(ctx, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProposalSet), args.Int(1), args.Error(2)
}
