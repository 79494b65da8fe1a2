package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"gradus/internal/agenda"
	"gradus/internal/domain"
	"gradus/internal/port"
)

// UpsertTopicInput is the DTO for creating or updating a topic proposal.
// An empty TopicID inserts a new topic.
type UpsertTopicInput struct {
	SetID            uuid.UUID
	ActorID          uuid.UUID
	TopicID          string
	Title            string
	Description      string
	ProblemStatement string
	ExpectedOutcome  string
	Keywords         []string
}

// DecisionInput is the DTO for recording a reviewer decision on one
// topic. Classification, ESG and SDG are consulted only on approval.
type DecisionInput struct {
	SetID          uuid.UUID
	TopicID        string
	Stage          domain.ReviewStage
	Status         domain.DecisionStatus
	ReviewerID     uuid.UUID
	ReviewerRole   domain.UserRole
	Classification domain.Classification
	ESG            domain.ESGPillar
	SDG            domain.SDGGoal
	Notes          string
}

// ProposalService owns the lifecycle of a group's topic-proposal sets:
// editing, submission, the moderator/chair/head decision chain, and
// promotion of an approved topic into the group's thesis.
type ProposalService interface {
	CreateSet(ctx context.Context, groupID, actorID uuid.UUID) (*domain.ProposalSet, error)
	GetSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, error)
	ExportSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, *domain.Group, error)
	ListSets(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) ([]domain.ProposalSet, error)
	CanStartNewSet(ctx context.Context, groupID uuid.UUID) (bool, error)
	UpsertTopic(ctx context.Context, input *UpsertTopicInput) (*domain.TopicProposal, error)
	RemoveTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) error
	SubmitSet(ctx context.Context, setID, actorID uuid.UUID) (*domain.ProposalSet, error)
	RecordDecision(ctx context.Context, input *DecisionInput) (*domain.ProposalSet, error)
	PromoteTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) (*domain.Thesis, error)
	ReviewQueue(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.ProposalSet, int, error)
}

type proposalService struct {
	setRepo    port.ProposalSetRepository
	groupRepo  port.GroupRepository
	agendaRepo port.AgendaRepository
	userRepo   port.UserRepository
	resolver   *agenda.Resolver
	notifSvc   NotificationService
	thesisSvc  ThesisService
	email      port.EmailSender
}

// NewProposalService creates a new ProposalService implementation.
func NewProposalService(
	setRepo port.ProposalSetRepository,
	groupRepo port.GroupRepository,
	agendaRepo port.AgendaRepository,
	userRepo port.UserRepository,
	resolver *agenda.Resolver,
	notifSvc NotificationService,
	thesisSvc ThesisService,
	email port.EmailSender,
) ProposalService {
	return &proposalService{
		setRepo:    setRepo,
		groupRepo:  groupRepo,
		agendaRepo: agendaRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		notifSvc:   notifSvc,
		thesisSvc:  thesisSvc,
		email:      email,
	}
}

// CreateSet opens a new proposal set for the group. Only the leader may
// open one, and only while no active set exists: the previous set must
// be fully rejected (or absent).
func (s *proposalService) CreateSet(ctx context.Context, groupID, actorID uuid.UUID) (*domain.ProposalSet, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.LeaderID != actorID {
		return nil, domain.ErrNotGroupLeader
	}

	setNumber := 1
	latest, err := s.setRepo.GetLatestByGroup(ctx, groupID)
	switch {
	case err == nil:
		if !latest.AllRejected() {
			return nil, domain.ErrActiveSetExists
		}
		setNumber = latest.SetNumber + 1
	case errors.Is(err, domain.ErrSetNotFound):
	default:
		return nil, fmt.Errorf("proposalService.CreateSet: %w", err)
	}

	set := &domain.ProposalSet{
		ID:        uuid.New(),
		GroupID:   groupID,
		SetNumber: setNumber,
		Topics:    make(map[string]*domain.TopicProposal),
		Reviews:   []domain.ReviewRecord{},
		CreatedBy: actorID,
	}
	if err := s.setRepo.Create(ctx, set); err != nil {
		return nil, err
	}

	s.notifyGroup(ctx, group, actorID, domain.CategoryTopicProposal, "set_created", map[string]any{
		"group_id":   group.ID.String(),
		"set_id":     set.ID.String(),
		"set_number": set.SetNumber,
	})
	return set, nil
}

func (s *proposalService) GetSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, error) {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, set.GroupID, actorID, role); err != nil {
		return nil, err
	}
	return set, nil
}

// ExportSet loads a set together with its group for download rendering,
// under the same visibility rule as GetSet.
func (s *proposalService) ExportSet(ctx context.Context, setID, actorID uuid.UUID, role domain.UserRole) (*domain.ProposalSet, *domain.Group, error) {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.canView(ctx, set.GroupID, actorID, role); err != nil {
		return nil, nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return set, group, nil
}

func (s *proposalService) ListSets(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) ([]domain.ProposalSet, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.canView(ctx, groupID, actorID, role); err != nil {
		return nil, err
	}
	return s.setRepo.ListByGroup(ctx, groupID)
}

// CanStartNewSet reports whether the group's leader could open another
// set right now: there is no set yet, or every topic in the latest one
// is rejected.
func (s *proposalService) CanStartNewSet(ctx context.Context, groupID uuid.UUID) (bool, error) {
	latest, err := s.setRepo.GetLatestByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrSetNotFound) {
			return true, nil
		}
		return false, err
	}
	return latest.AllRejected(), nil
}

// UpsertTopic inserts or edits one topic while the set is editable. New
// topic ids come from the group's counter and are formatted
// "{code}-T{n}"; removed topics never free their number.
func (s *proposalService) UpsertTopic(ctx context.Context, input *UpsertTopicInput) (*domain.TopicProposal, error) {
	set, err := s.setRepo.GetByID(ctx, input.SetID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, input.ActorID); err != nil {
		return nil, err
	}
	if !set.CanEdit() {
		return nil, domain.ErrSetLocked
	}

	fields := domain.FieldErrors{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "title is required"
	}
	if fields.Any() {
		return nil, fields
	}

	now := time.Now().UTC()
	keywords := input.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	var topic *domain.TopicProposal
	if input.TopicID == "" {
		// Bound check first: a full set must reject the insert before
		// the counter moves.
		if len(set.Topics) >= domain.MaxTopicProposals {
			return nil, domain.ErrSetFull
		}
		seq, err := s.groupRepo.NextTopicSeq(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		topic = &domain.TopicProposal{
			ID:               fmt.Sprintf("%s-T%d", group.Code, seq),
			Title:            input.Title,
			Description:      input.Description,
			ProblemStatement: input.ProblemStatement,
			ExpectedOutcome:  input.ExpectedOutcome,
			Keywords:         keywords,
			Status:           domain.TopicStatusDraft,
			ProposedBy:       input.ActorID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		set.Topics[topic.ID] = topic
	} else {
		var ok bool
		topic, ok = set.Topics[input.TopicID]
		if !ok {
			return nil, domain.ErrTopicNotFound
		}
		topic.Title = input.Title
		topic.Description = input.Description
		topic.ProblemStatement = input.ProblemStatement
		topic.ExpectedOutcome = input.ExpectedOutcome
		topic.Keywords = keywords
		topic.UpdatedAt = now
	}

	if err := s.setRepo.Update(ctx, set); err != nil {
		return nil, err
	}
	return topic, nil
}

// RemoveTopic drops one topic from an editable set. Remaining topics
// keep their ids.
func (s *proposalService) RemoveTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) error {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, group, actorID); err != nil {
		return err
	}
	if !set.CanEdit() {
		return domain.ErrSetLocked
	}
	if _, ok := set.Topics[topicID]; !ok {
		return domain.ErrTopicNotFound
	}
	delete(set.Topics, topicID)
	return s.setRepo.Update(ctx, set)
}

// SubmitSet freezes the set and hands it to the moderators: every draft
// topic moves to moderator_review and the set starts awaiting the
// moderator pass.
func (s *proposalService) SubmitSet(ctx context.Context, setID, actorID uuid.UUID) (*domain.ProposalSet, error) {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return nil, err
	}
	if group.LeaderID != actorID {
		return nil, domain.ErrNotGroupLeader
	}
	if !set.CanEdit() {
		return nil, domain.ErrSetLocked
	}
	if len(set.Topics) == 0 {
		return nil, domain.FieldErrors{"topics": "at least one topic is required before submitting"}
	}

	now := time.Now().UTC()
	set.AwaitingModerator = true
	for _, topic := range set.Topics {
		if topic.Status == domain.TopicStatusDraft {
			topic.Status = domain.TopicStatusModeratorReview
			topic.UpdatedAt = now
		}
	}
	if err := s.setRepo.Update(ctx, set); err != nil {
		return nil, err
	}

	s.notifyReviewers(ctx, domain.ReviewStageModerator, "set_submitted", group, set)
	s.emailReviewersOnSubmit(ctx, group, set)
	return set, nil
}

// RecordDecision applies one reviewer decision. Approvals validate and
// stamp the classification, then park the topic in the stage's approved
// status; rejections are terminal. Once the stage's queue for this set
// empties, surviving topics move to the next stage together.
func (s *proposalService) RecordDecision(ctx context.Context, input *DecisionInput) (*domain.ProposalSet, error) {
	if !domain.ValidReviewStages[input.Stage] {
		return nil, domain.FieldErrors{"stage": "stage must be moderator, chair or head"}
	}
	if input.ReviewerRole != input.Stage.ReviewerRole() {
		return nil, domain.ErrForbidden
	}

	set, err := s.setRepo.GetByID(ctx, input.SetID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return nil, err
	}
	topic, ok := set.Topics[input.TopicID]
	if !ok {
		return nil, domain.ErrTopicNotFound
	}
	if topic.Status != input.Stage.ReviewStatus() {
		return nil, domain.ErrStageMismatch
	}

	now := time.Now().UTC()
	switch input.Status {
	case domain.DecisionApproved:
		// A stale path from a previously selected tree must not leak
		// into this classification.
		next := agenda.ResetPathOnRetarget(topic.Classification, input.Classification)
		sel := agenda.Selection{
			AgendaType: next.AgendaType,
			Department: next.Department,
			AgendaPath: next.AgendaPath,
			ESG:        input.ESG,
			SDG:        input.SDG,
			Notes:      input.Notes,
		}
		roots, err := s.loadRoots(ctx, next)
		if err != nil {
			return nil, err
		}
		if fields := s.resolver.Validate(sel, roots, input.Stage); fields.Any() {
			return nil, fields
		}
		topic.Classification = next
		topic.ESG = input.ESG
		topic.SDG = input.SDG
		topic.Status = input.Stage.ApprovedStatus()
	case domain.DecisionRejected:
		topic.Status = domain.TopicStatusRejected
	default:
		return nil, domain.FieldErrors{"status": "status must be approved or rejected"}
	}
	topic.UpdatedAt = now

	set.Reviews = append(set.Reviews, domain.ReviewRecord{
		Stage:      input.Stage,
		TopicID:    topic.ID,
		Status:     input.Status,
		Notes:      input.Notes,
		ReviewerID: input.ReviewerID,
		ReviewedAt: now,
	})

	advancedTo := s.advanceBatch(set, input.Stage, now)

	if err := s.setRepo.Update(ctx, set); err != nil {
		return nil, err
	}

	s.notifyGroup(ctx, group, uuid.Nil, domain.CategoryTopicProposal, "topic_"+string(input.Status), map[string]any{
		"group_id":    group.ID.String(),
		"set_id":      set.ID.String(),
		"set_number":  set.SetNumber,
		"topic_id":    topic.ID,
		"topic_title": topic.Title,
		"stage":       string(input.Stage),
		"status":      string(input.Status),
	})
	if advancedTo != "" {
		s.notifyReviewers(ctx, advancedTo, "set_awaiting_review", group, set)
	}
	s.emailProposerOnDecision(ctx, topic, input)

	return set, nil
}

// advanceBatch passes the baton once a stage's queue for the set is
// empty: surviving approved topics enter the next stage's review status
// together, and the awaiting flags track which half of the chain the
// set sits in. A fully rejected set drops both flags so the leader can
// start over.
func (s *proposalService) advanceBatch(set *domain.ProposalSet, stage domain.ReviewStage, now time.Time) domain.ReviewStage {
	if set.CountInStatus(stage.ReviewStatus()) > 0 {
		return ""
	}

	var survivors []*domain.TopicProposal
	for _, t := range set.Topics {
		if t.Status == stage.ApprovedStatus() {
			survivors = append(survivors, t)
		}
	}

	next := stage.Next()
	if next != "" {
		for _, t := range survivors {
			t.Status = next.ReviewStatus()
			t.UpdatedAt = now
		}
	}

	switch stage {
	case domain.ReviewStageModerator:
		set.AwaitingModerator = false
		if len(survivors) > 0 {
			set.AwaitingHead = true
		}
	case domain.ReviewStageHead:
		set.AwaitingHead = false
	}

	if set.AllRejected() {
		set.AwaitingModerator = false
		set.AwaitingHead = false
		return ""
	}
	if len(survivors) == 0 {
		return ""
	}
	return next
}

// PromoteTopic marks a head-approved topic as the group's thesis. The
// thesis row is created before the flag is written: its unique group
// constraint is what makes promotion exclusive even when two calls
// race, and a failed creation leaves the set untouched.
func (s *proposalService) PromoteTopic(ctx context.Context, setID uuid.UUID, topicID string, actorID uuid.UUID) (*domain.Thesis, error) {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, set.GroupID)
	if err != nil {
		return nil, err
	}
	if group.LeaderID != actorID {
		return nil, domain.ErrNotGroupLeader
	}
	topic, ok := set.Topics[topicID]
	if !ok {
		return nil, domain.ErrTopicNotFound
	}
	if topic.Status != domain.TopicStatusHeadApproved {
		return nil, domain.ErrTopicNotApproved
	}
	used, err := s.setRepo.AnyTopicUsedAsThesis(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("proposalService.PromoteTopic: %w", err)
	}
	if used {
		return nil, domain.ErrThesisChosen
	}

	thesis, err := s.thesisSvc.CreateFromTopic(ctx, group, topic, actorID)
	if err != nil {
		return nil, err
	}

	topic.UsedAsThesis = true
	topic.UpdatedAt = time.Now().UTC()
	if err := s.setRepo.Update(ctx, set); err != nil {
		// The thesis row exists but the topic flag did not stick; the
		// next promotion attempt will fail on the thesis constraint.
		log.Printf("proposalService.PromoteTopic: flagging topic %s after thesis creation: %v", topic.ID, err)
		return nil, err
	}

	s.notifyGroup(ctx, group, uuid.Nil, domain.CategoryThesis, "thesis_created", map[string]any{
		"group_id":    group.ID.String(),
		"thesis_id":   thesis.ID.String(),
		"topic_id":    topic.ID,
		"topic_title": topic.Title,
	})
	return thesis, nil
}

// ReviewQueue lists the sets with at least one topic waiting on the
// caller's stage.
func (s *proposalService) ReviewQueue(ctx context.Context, role domain.UserRole, offset, limit int) ([]domain.ProposalSet, int, error) {
	var stage domain.ReviewStage
	switch role {
	case domain.RoleModerator:
		stage = domain.ReviewStageModerator
	case domain.RoleChair:
		stage = domain.ReviewStageChair
	case domain.RoleHead:
		stage = domain.ReviewStageHead
	default:
		return nil, 0, domain.ErrForbidden
	}
	return s.setRepo.ListByTopicStatus(ctx, stage.ReviewStatus(), offset, limit)
}

func (s *proposalService) canView(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) error {
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

func (s *proposalService) requireMember(ctx context.Context, group *domain.Group, actorID uuid.UUID) error {
	if group.LeaderID == actorID {
		return nil
	}
	member, err := s.groupRepo.IsMember(ctx, group.ID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotGroupMember
	}
	return nil
}

// loadRoots fetches the tree a classification points at. A missing
// tree is not an error here; validation reports it as an unresolvable
// path.
func (s *proposalService) loadRoots(ctx context.Context, c domain.Classification) ([]domain.AgendaNode, error) {
	var dept string
	switch c.AgendaType {
	case domain.AgendaInstitutional:
	case domain.AgendaDepartmental:
		if c.Department == "" {
			return nil, nil
		}
		dept = c.Department
	default:
		return nil, nil
	}
	tree, err := s.agendaRepo.Get(ctx, c.AgendaType, dept)
	if err != nil {
		if errors.Is(err, domain.ErrAgendaTreeNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading agenda tree: %w", err)
	}
	return tree.Roots, nil
}

// notifyGroup fans a notification out to every member of the group,
// leaving out the actor who caused it. Failures are logged and never
// fail the calling operation.
func (s *proposalService) notifyGroup(ctx context.Context, group *domain.Group, actorID uuid.UUID, category domain.NotificationCategory, action string, details map[string]any) {
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		log.Printf("proposalService.notifyGroup: listing members of %s: %v", group.ID, err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if m.ID == actorID {
			continue
		}
		recipients = append(recipients, m.ID)
	}
	if err := s.notifSvc.Notify(ctx, &NotifyInput{
		Recipients: recipients,
		Category:   category,
		Action:     action,
		Details:    details,
	}); err != nil {
		log.Printf("proposalService.notifyGroup: %v", err)
	}
}

func (s *proposalService) notifyReviewers(ctx context.Context, stage domain.ReviewStage, action string, group *domain.Group, set *domain.ProposalSet) {
	reviewers, err := s.userRepo.ListByRole(ctx, stage.ReviewerRole())
	if err != nil {
		log.Printf("proposalService.notifyReviewers: listing %s users: %v", stage.ReviewerRole(), err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(reviewers))
	for _, r := range reviewers {
		recipients = append(recipients, r.ID)
	}
	if err := s.notifSvc.Notify(ctx, &NotifyInput{
		Recipients: recipients,
		Category:   domain.CategoryTopicProposal,
		Action:     action,
		Details: map[string]any{
			"group_id":   group.ID.String(),
			"group_code": group.Code,
			"set_id":     set.ID.String(),
			"set_number": set.SetNumber,
			"stage":      string(stage),
		},
	}); err != nil {
		log.Printf("proposalService.notifyReviewers: %v", err)
	}
}

func (s *proposalService) emailReviewersOnSubmit(ctx context.Context, group *domain.Group, set *domain.ProposalSet) {
	reviewers, err := s.userRepo.ListByRole(ctx, domain.RoleModerator)
	if err != nil {
		log.Printf("proposalService.emailReviewersOnSubmit: %v", err)
		return
	}
	for _, r := range reviewers {
		if err := s.email.SendSetSubmitted(ctx, r.Email, r.FullName, group.Name, set.SetNumber); err != nil {
			log.Printf("proposalService.emailReviewersOnSubmit: sending to %s: %v", r.Email, err)
		}
	}
}

func (s *proposalService) emailProposerOnDecision(ctx context.Context, topic *domain.TopicProposal, input *DecisionInput) {
	proposer, err := s.userRepo.GetByID(ctx, topic.ProposedBy)
	if err != nil {
		log.Printf("proposalService.emailProposerOnDecision: loading proposer: %v", err)
		return
	}
	if err := s.email.SendTopicDecision(ctx, proposer.Email, proposer.FullName, topic.Title, input.Stage, input.Status, input.Notes); err != nil {
		log.Printf("proposalService.emailProposerOnDecision: sending to %s: %v", proposer.Email, err)
	}
}
