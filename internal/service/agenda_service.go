package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gradus/internal/agenda"
	"gradus/internal/domain"
	"gradus/internal/port"
)

// UpsertAgendaInput is the DTO for replacing one classification tree.
type UpsertAgendaInput struct {
	AgendaType domain.AgendaType   `json:"agenda_type" binding:"required"`
	Department string              `json:"department"`
	Roots      []domain.AgendaNode `json:"roots" binding:"required"`
}

// AgendaService exposes the classification trees reviewers pick from.
type AgendaService interface {
	Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error)
	List(ctx context.Context) ([]domain.AgendaTree, error)
	Options(ctx context.Context, agendaType domain.AgendaType, department string, path []string) ([]string, error)
	Upsert(ctx context.Context, input *UpsertAgendaInput) (*domain.AgendaTree, error)
}

type agendaService struct {
	repo port.AgendaRepository
}

// NewAgendaService creates a new AgendaService implementation.
func NewAgendaService(repo port.AgendaRepository) AgendaService {
	return &agendaService{repo: repo}
}

func (s *agendaService) Get(ctx context.Context, agendaType domain.AgendaType, department string) (*domain.AgendaTree, error) {
	if fields := validateTreeKey(agendaType, department); fields.Any() {
		return nil, fields
	}
	// The institutional tree is stored under the empty department.
	if agendaType == domain.AgendaInstitutional {
		department = ""
	}
	return s.repo.Get(ctx, agendaType, department)
}

func (s *agendaService) List(ctx context.Context) ([]domain.AgendaTree, error) {
	return s.repo.List(ctx)
}

// Options returns the labels selectable one level below the given
// partial path, so clients can build the picker level by level.
func (s *agendaService) Options(ctx context.Context, agendaType domain.AgendaType, department string, path []string) ([]string, error) {
	tree, err := s.Get(ctx, agendaType, department)
	if err != nil {
		return nil, err
	}
	return agenda.OptionsAtDepth(tree.Roots, path, len(path)), nil
}

// Upsert replaces the whole tree for its type and department.
func (s *agendaService) Upsert(ctx context.Context, input *UpsertAgendaInput) (*domain.AgendaTree, error) {
	fields := validateTreeKey(input.AgendaType, input.Department)
	if len(input.Roots) == 0 {
		fields["roots"] = "at least one root is required"
	}
	if fields.Any() {
		return nil, fields
	}

	dept := input.Department
	if input.AgendaType == domain.AgendaInstitutional {
		dept = ""
	}
	tree := &domain.AgendaTree{
		ID:         uuid.New(),
		AgendaType: input.AgendaType,
		Department: dept,
		Roots:      input.Roots,
	}
	if err := s.repo.Upsert(ctx, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func validateTreeKey(agendaType domain.AgendaType, department string) domain.FieldErrors {
	fields := domain.FieldErrors{}
	switch agendaType {
	case domain.AgendaInstitutional:
	case domain.AgendaDepartmental:
		if strings.TrimSpace(department) == "" {
			fields["department"] = "department is required for departmental agendas"
		}
	default:
		fields["agenda_type"] = "agenda type must be institutional or departmental"
	}
	return fields
}
