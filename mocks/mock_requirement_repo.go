package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockRequirementRepo is a mock implementation of
// port.TerminalRequirementRepository.
type MockRequirementRepo struct {
	mock.Mock
}

func (m *MockRequirementRepo) Create(ctx context.Context, req *domain.TerminalRequirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequirementRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TerminalRequirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TerminalRequirement), args.Error(1)
}

func (m *MockRequirementRepo) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.TerminalRequirement, error) {
	args := m.Called(ctx, thesisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TerminalRequirement), args.Error(1)
}

func (m *MockRequirementRepo) Update(ctx context.Context, req *domain.TerminalRequirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequirementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
