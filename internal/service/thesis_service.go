package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/port"
)

// UpdateThesisInput is the DTO for editing thesis details.
type UpdateThesisInput struct {
	ThesisID    uuid.UUID
	ActorID     uuid.UUID
	Title       string
	Description string
	Keywords    []string
}

// ThesisService owns the group's official thesis record once a topic
// has been promoted.
type ThesisService interface {
	CreateFromTopic(ctx context.Context, group *domain.Group, topic *domain.TopicProposal, actorID uuid.UUID) (*domain.Thesis, error)
	GetByID(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error)
	GetByGroup(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error)
	UpdateDetails(ctx context.Context, input *UpdateThesisInput) (*domain.Thesis, error)
}

type thesisService struct {
	thesisRepo port.ThesisRepository
	groupRepo  port.GroupRepository
}

// NewThesisService creates a new ThesisService implementation.
func NewThesisService(thesisRepo port.ThesisRepository, groupRepo port.GroupRepository) ThesisService {
	return &thesisService{thesisRepo: thesisRepo, groupRepo: groupRepo}
}

// CreateFromTopic materializes the promoted topic as the group's
// thesis. The repository's unique group constraint rejects a second
// thesis for the same group.
func (s *thesisService) CreateFromTopic(ctx context.Context, group *domain.Group, topic *domain.TopicProposal, actorID uuid.UUID) (*domain.Thesis, error) {
	keywords := topic.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	thesis := &domain.Thesis{
		ID:          uuid.New(),
		GroupID:     group.ID,
		TopicID:     topic.ID,
		Title:       topic.Title,
		Description: topic.Description,
		Keywords:    keywords,
		CreatedBy:   actorID,
	}
	if err := s.thesisRepo.Create(ctx, thesis); err != nil {
		return nil, err
	}
	return thesis, nil
}

func (s *thesisService) GetByID(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error) {
	thesis, err := s.thesisRepo.GetByID(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, thesis.GroupID, actorID, role); err != nil {
		return nil, err
	}
	return thesis, nil
}

func (s *thesisService) GetByGroup(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) (*domain.Thesis, error) {
	if err := s.canView(ctx, groupID, actorID, role); err != nil {
		return nil, err
	}
	return s.thesisRepo.GetByGroup(ctx, groupID)
}

// UpdateDetails lets the group leader adjust the working title,
// description and keywords after promotion.
func (s *thesisService) UpdateDetails(ctx context.Context, input *UpdateThesisInput) (*domain.Thesis, error) {
	thesis, err := s.thesisRepo.GetByID(ctx, input.ThesisID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, thesis.GroupID)
	if err != nil {
		return nil, err
	}
	if group.LeaderID != input.ActorID {
		return nil, domain.ErrNotGroupLeader
	}

	fields := domain.FieldErrors{}
	if input.Title == "" {
		fields["title"] = "title is required"
	}
	if fields.Any() {
		return nil, fields
	}

	thesis.Title = input.Title
	thesis.Description = input.Description
	if input.Keywords != nil {
		thesis.Keywords = input.Keywords
	}
	thesis.UpdatedAt = time.Now().UTC()
	if err := s.thesisRepo.Update(ctx, thesis); err != nil {
		return nil, err
	}
	return thesis, nil
}

func (s *thesisService) canView(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) error {
	switch role {
	case domain.RoleAdmin, domain.RoleModerator, domain.RoleChair, domain.RoleHead:
		return nil
	}
	member, err := s.groupRepo.IsMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotGroupMember
	}
	return nil
}
