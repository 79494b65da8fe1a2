package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockChapterRepo is a mock implementation of port.ChapterRepository.
type MockChapterRepo struct {
	mock.Mock
}

func (m *MockChapterRepo) Create(ctx context.Context, chapter *domain.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *MockChapterRepo) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.Chapter, error) {
	args := m.Called(ctx, thesisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chapter), args.Error(1)
}

func (m *MockChapterRepo) Update(ctx context.Context, chapter *domain.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
