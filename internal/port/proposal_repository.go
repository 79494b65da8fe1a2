package port

import (
	"context"

	"github.com/google/uuid"

	"gradus/internal/domain"
)

// ProposalSetRepository defines the contract for proposal-set
// persistence. A set is stored as a single document (topics and review
// history included) and written whole on every mutation; the last write
// wins on concurrent updates.
type ProposalSetRepository interface {
	Create(ctx context.Context, set *domain.ProposalSet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalSet, error)
	GetLatestByGroup(ctx context.Context, groupID uuid.UUID) (*domain.ProposalSet, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProposalSet, error)
	ListByTopicStatus(ctx context.Context, status domain.TopicStatus, offset, limit int) ([]domain.ProposalSet, int, error)
	Update(ctx context.Context, set *domain.ProposalSet) error
	AnyTopicUsedAsThesis(ctx context.Context, groupID uuid.UUID) (bool, error)
}
