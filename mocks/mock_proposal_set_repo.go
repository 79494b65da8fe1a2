package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockProposalSetRepo is a mock implementation of port.ProposalSetRepository.
type MockProposalSetRepo struct {
	mock.Mock
}

func (m *MockProposalSetRepo) Create(ctx context.Context, set *domain.ProposalSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockProposalSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalSetRepo) GetLatestByGroup(ctx context.Context, groupID uuid.UUID) (*domain.ProposalSet, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProposalSet), args.Error(1)
}

func (m *MockProposalSetRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProposalSet, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProposalSet), args.Error(1)
}

func (m *MockProposalSetRepo) ListByTopicStatus(ctx context.Context, status domain.TopicStatus, offset, limit int) ([]domain.ProposalSet, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProposalSet), args.Int(1), args.Error(2)
}

func (m *MockProposalSetRepo) Update(ctx context.Context, set *domain.ProposalSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockProposalSetRepo) AnyTopicUsedAsThesis(ctx context.Context, groupID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID)
	return args.Bool(0), args.Error(1)
}
