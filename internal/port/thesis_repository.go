package port

import (
	"context"

	"github.com/google/uuid"

	"gradus/internal/domain"
)

// ThesisRepository defines the contract for thesis persistence.
type ThesisRepository interface {
	Create(ctx context.Context, thesis *domain.Thesis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error)
	GetByGroup(ctx context.Context, groupID uuid.UUID) (*domain.Thesis, error)
	Update(ctx context.Context, thesis *domain.Thesis) error
}

// ChapterRepository defines the contract for chapter persistence.
type ChapterRepository interface {
	Create(ctx context.Context, chapter *domain.Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chapter, error)
	ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.Chapter, error)
	Update(ctx context.Context, chapter *domain.Chapter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TerminalRequirementRepository defines the contract for terminal
// requirement persistence.
type TerminalRequirementRepository interface {
	Create(ctx context.Context, req *domain.TerminalRequirement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TerminalRequirement, error)
	ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.TerminalRequirement, error)
	Update(ctx context.Context, req *domain.TerminalRequirement) error
	Delete(ctx context.Context, id uuid.UUID) error
}
