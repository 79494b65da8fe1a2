package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// MockAgendaService is a mock implementation of service.AgendaService.
type MockAgendaService struct {
	mock.Mock
}

func (m *MockAgendaService) Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error) {
	args := m.Called(ctx, agendaType, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgendaTree), args.Error(1)
}

func (m *MockAgendaService) List(ctx context.Context) ([]domain.AgendaTree, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgendaTree), args.Error(1)
}

func (m *MockAgendaService) Options(ctx context.Context, agendaType domain.AgendaType, department string, path []string) ([]string, error) {
	args := m.Called(ctx, agendaType, department, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAgendaService) Upsert(ctx context.Context, input *service.UpsertAgendaInput) (*domain.AgendaTree, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgendaTree), args.Error(1)
}
