package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"gradus/internal/domain"
	"gradus/internal/port"
)

// CreateGroupInput is the DTO for registering a new thesis group.
type CreateGroupInput struct {
	Code       string      `json:"code" binding:"required"`
	Name       string      `json:"name" binding:"required"`
	Program    string      `json:"program"`
	Department string      `json:"department"`
	LeaderID   uuid.UUID   `json:"leader_id" binding:"required"`
	MemberIDs  []uuid.UUID `json:"member_ids"`
}

// UpdateGroupInput is the DTO for editing group details.
type UpdateGroupInput struct {
	Name       string `json:"name" binding:"required"`
	Program    string `json:"program"`
	Department string `json:"department"`
}

// GroupService owns group registration and membership.
type GroupService interface {
	Create(ctx context.Context, input *CreateGroupInput, actorID uuid.UUID) (*domain.Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	List(ctx context.Context, offset, limit int) ([]domain.Group, int, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateGroupInput) (*domain.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Members(ctx context.Context, groupID uuid.UUID) ([]domain.User, error)
	AddMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error
	RemoveMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error
	ChangeLeader(ctx context.Context, groupID, newLeaderID uuid.UUID) (*domain.Group, error)
}

type groupService struct {
	groupRepo port.GroupRepository
	userRepo  port.UserRepository
	notifSvc  NotificationService
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(groupRepo port.GroupRepository, userRepo port.UserRepository, notifSvc NotificationService) GroupService {
	return &groupService{groupRepo: groupRepo, userRepo: userRepo, notifSvc: notifSvc}
}

// Create registers a group with its leader and initial members. The
// leader is always enrolled as a member; the code must be unused.
func (s *groupService) Create(ctx context.Context, input *CreateGroupInput, actorID uuid.UUID) (*domain.Group, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	fields := domain.FieldErrors{}
	if code == "" {
		fields["code"] = "code is required"
	}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if fields.Any() {
		return nil, fields
	}

	if _, err := s.groupRepo.GetByCode(ctx, code); err == nil {
		return nil, domain.ErrDuplicateCode
	} else if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}

	leader, err := s.userRepo.GetByID(ctx, input.LeaderID)
	if err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:         uuid.New(),
		Code:       code,
		Name:       input.Name,
		Program:    input.Program,
		Department: input.Department,
		LeaderID:   leader.ID,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	members := append([]uuid.UUID{leader.ID}, input.MemberIDs...)
	seen := make(map[uuid.UUID]bool, len(members))
	now := time.Now().UTC()
	for _, id := range members {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		if err := s.groupRepo.AddMember(ctx, &domain.GroupMember{
			GroupID: group.ID,
			UserID:  id,
			AddedBy: actorID,
			AddedAt: now,
		}); err != nil && !errors.Is(err, domain.ErrAlreadyMember) {
			return nil, err
		}
	}

	s.notifyMembers(ctx, group, "group_created", map[string]any{
		"group_id":   group.ID.String(),
		"group_code": group.Code,
		"group_name": group.Name,
	})
	return group, nil
}

func (s *groupService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *groupService) List(ctx context.Context, offset, limit int) ([]domain.Group, int, error) {
	return s.groupRepo.List(ctx, offset, limit)
}

func (s *groupService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	return s.groupRepo.ListForUser(ctx, userID)
}

func (s *groupService) Update(ctx context.Context, id uuid.UUID, input *UpdateGroupInput) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Name = input.Name
	group.Program = input.Program
	group.Department = input.Department
	group.UpdatedAt = time.Now().UTC()
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.groupRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, id)
}

func (s *groupService) Members(ctx context.Context, groupID uuid.UUID) ([]domain.User, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groupRepo.ListMembers(ctx, groupID)
}

// AddMember enrolls a user. The group leader and admins may manage
// membership.
func (s *groupService) AddMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && group.LeaderID != actorID {
		return domain.ErrNotGroupLeader
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.groupRepo.AddMember(ctx, &domain.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		AddedBy: actorID,
		AddedAt: time.Now().UTC(),
	})
}

// RemoveMember drops a user from the group. The leader cannot be
// removed; reassign leadership first.
func (s *groupService) RemoveMember(ctx context.Context, groupID, userID, actorID uuid.UUID, actorRole domain.UserRole) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && group.LeaderID != actorID {
		return domain.ErrNotGroupLeader
	}
	if group.LeaderID == userID {
		return domain.ErrLeaderNotMember
	}
	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

// ChangeLeader hands the group to another member. The new leader must
// already be enrolled.
func (s *groupService) ChangeLeader(ctx context.Context, groupID, newLeaderID uuid.UUID) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groupRepo.IsMember(ctx, groupID, newLeaderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrLeaderNotMember
	}
	group.LeaderID = newLeaderID
	group.UpdatedAt = time.Now().UTC()
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) notifyMembers(ctx context.Context, group *domain.Group, action string, details map[string]any) {
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		log.Printf("groupService.notifyMembers: listing members of %s: %v", group.ID, err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, m.ID)
	}
	if err := s.notifSvc.Notify(ctx, &NotifyInput{
		Recipients: recipients,
		Category:   domain.CategoryGroup,
		Action:     action,
		Details:    details,
	}); err != nil {
		log.Printf("groupService.notifyMembers: %v", err)
	}
}
