package port

import (
	"context"

	"gradus/internal/domain"
)

// AgendaRepository defines the contract for agenda-tree persistence.
// There is one institutional tree and at most one tree per department;
// Get uses an empty department for the institutional tree.
type AgendaRepository interface {
	Upsert(ctx context.Context, tree *domain.AgendaTree) error
	Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error)
	List(ctx context.Context) ([]domain.AgendaTree, error)
}
