package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockThesisRepo is a mock implementation of port.ThesisRepository.
type MockThesisRepo struct {
	mock.Mock
}

func (m *MockThesisRepo) Create(ctx context.Context, thesis *domain.Thesis) error {
	args := m.Called(ctx, thesis)
	return args.Error(0)
}

func (m *MockThesisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockThesisRepo) GetByGroup(ctx context.Context, groupID uuid.UUID) (*domain.Thesis, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thesis), args.Error(1)
}

func (m *MockThesisRepo) Update(ctx context.Context, thesis *domain.Thesis) error {
	args := m.Called(ctx, thesis)
	return args.Error(0)
}
