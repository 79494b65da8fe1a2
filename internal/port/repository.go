package port

import (
	"context"

	"github.com/google/uuid"

	"gradus/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository defines the contract for group persistence and
// membership. NextTopicSeq advances the group's monotonic topic counter
// and returns the new value; the counter never moves backward, so topic
// ids derived from it stay unique across all of the group's sets.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	GetByCode(ctx context.Context, code string) (*domain.Group, error)
	List(ctx context.Context, offset, limit int) ([]domain.Group, int, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *domain.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.User, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	NextTopicSeq(ctx context.Context, groupID uuid.UUID) (int, error)
}
