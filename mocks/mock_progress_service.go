package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
)

// MockProgressService is a mock implementation of service.ProgressService.
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) CreateChapter(ctx context.Context, input *service.ChapterInput) (*domain.Chapter, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *MockProgressService) UpdateChapter(ctx context.Context, chapterID uuid.UUID, input *service.ChapterInput) (*domain.Chapter, error) {
	args := m.Called(ctx, chapterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *MockProgressService) DeleteChapter(ctx context.Context, chapterID, actorID uuid.UUID) error {
	args := m.Called(ctx, chapterID, actorID)
	return args.Error(0)
}

func (m *MockProgressService) SubmitChapter(ctx context.Context, chapterID, actorID uuid.UUID, fileRef string) (*domain.Chapter, error) {
	args := m.Called(ctx, chapterID, actorID, fileRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *MockProgressService) ReviewChapter(ctx context.Context, input *service.ReviewWorkInput) (*domain.Chapter, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

func (m *MockProgressService) CreateRequirement(ctx context.Context, input *service.RequirementInput) (*domain.TerminalRequirement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TerminalRequirement), args.Error(1)
}

func (m *MockProgressService) DeleteRequirement(ctx context.Context, requirementID, actorID uuid.UUID) error {
	args := m.Called(ctx, requirementID, actorID)
	return args.Error(0)
}

func (m *MockProgressService) SubmitRequirement(ctx context.Context, requirementID, actorID uuid.UUID, fileRef string) (*domain.TerminalRequirement, error) {
	args := m.Called(ctx, requirementID, actorID, fileRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TerminalRequirement), args.Error(1)
}

func (m *MockProgressService) ReviewRequirement(ctx context.Context, input *service.ReviewWorkInput) (*domain.TerminalRequirement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TerminalRequirement), args.Error(1)
}

func (m *MockProgressService) Progress(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*service.ProgressSnapshot, error) {
	args := m.Called(ctx, thesisID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProgressSnapshot), args.Error(1)
}

func (m *MockProgressService) UploadURL(ctx context.Context, thesisID, actorID uuid.UUID, filename, contentType string) (*service.PresignedFile, error) {
	args := m.Called(ctx, thesisID, actorID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedFile), args.Error(1)
}

func (m *MockProgressService) DownloadURL(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole, key string) (*service.PresignedFile, error) {
	args := m.Called(ctx, thesisID, actorID, role, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedFile), args.Error(1)
}

func (m *MockProgressService) ChapterFileURL(ctx context.Context, chapterID, actorID uuid.UUID, role domain.UserRole) (*service.PresignedFile, error) {
	args := m.Called(ctx, chapterID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedFile), args.Error(1)
}

func (m *MockProgressService) RequirementFileURL(ctx context.Context, requirementID, actorID uuid.UUID, role domain.UserRole) (*service.PresignedFile, error) {
	args := m.Called(ctx, requirementID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedFile), args.Error(1)
}
