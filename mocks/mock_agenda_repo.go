package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockAgendaRepo is a mock implementation of port.AgendaRepository.
type MockAgendaRepo struct {
	mock.Mock
}

func (m *MockAgendaRepo) Upsert(ctx context.Context, tree *domain.AgendaTree) error {
	args := m.Called(ctx, tree)
	return args.Error(0)
}

func (m *MockAgendaRepo) Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error) {
	args := m.Called(ctx, agendaType, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgendaTree), args.Error(1)
}

func (m *MockAgendaRepo) List(ctx context.Context) ([]domain.AgendaTree, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgendaTree), args.Error(1)
}
