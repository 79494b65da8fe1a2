package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"gradus/internal/config"
	"gradus/internal/domain"
	"gradus/internal/port"
	"gradus/internal/stagegate"
)

// ChapterInput is the DTO for creating or editing a chapter.
type ChapterInput struct {
	ThesisID uuid.UUID
	ActorID  uuid.UUID
	Number   int
	Title    string
	Stages   []string
}

// RequirementInput is the DTO for creating or editing a terminal
// requirement.
type RequirementInput struct {
	ThesisID uuid.UUID
	ActorID  uuid.UUID
	Name     string
	Stage    string
}

// ReviewWorkInput is the DTO for a reviewer's verdict on a chapter or
// terminal requirement.
type ReviewWorkInput struct {
	ID           uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerRole domain.UserRole
	Status       domain.WorkStatus
}

// StageProgress is one stage's slice of the progress snapshot.
type StageProgress struct {
	Stage            domain.Stage `json:"stage"`
	Title            string       `json:"title"`
	ChaptersComplete bool         `json:"chapters_complete"`
	ChaptersLocked   bool         `json:"chapters_locked"`
	TerminalComplete bool         `json:"terminal_complete"`
	TerminalLocked   bool         `json:"terminal_locked"`
}

// ProgressSnapshot is the full gating view of a thesis: per-stage
// completion and locks plus the underlying work items.
type ProgressSnapshot struct {
	ThesisID     uuid.UUID                    `json:"thesis_id"`
	CurrentStage domain.Stage                 `json:"current_stage"`
	Stages       []StageProgress              `json:"stages"`
	Chapters     []domain.Chapter             `json:"chapters"`
	Requirements []domain.TerminalRequirement `json:"requirements"`
}

// PresignedFile is a short-lived URL plus the storage key it addresses.
type PresignedFile struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ProgressService tracks chapter and terminal-requirement work against
// the stage gate sequence.
type ProgressService interface {
	CreateChapter(ctx context.Context, input *ChapterInput) (*domain.Chapter, error)
	UpdateChapter(ctx context.Context, chapterID uuid.UUID, input *ChapterInput) (*domain.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID, actorID uuid.UUID) error
	SubmitChapter(ctx context.Context, chapterID, actorID uuid.UUID, fileRef string) (*domain.Chapter, error)
	ReviewChapter(ctx context.Context, input *ReviewWorkInput) (*domain.Chapter, error)
	CreateRequirement(ctx context.Context, input *RequirementInput) (*domain.TerminalRequirement, error)
	DeleteRequirement(ctx context.Context, requirementID, actorID uuid.UUID) error
	SubmitRequirement(ctx context.Context, requirementID, actorID uuid.UUID, fileRef string) (*domain.TerminalRequirement, error)
	ReviewRequirement(ctx context.Context, input *ReviewWorkInput) (*domain.TerminalRequirement, error)
	Progress(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*ProgressSnapshot, error)
	UploadURL(ctx context.Context, thesisID, actorID uuid.UUID, filename, contentType string) (*PresignedFile, error)
	DownloadURL(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole, key string) (*PresignedFile, error)
	ChapterFileURL(ctx context.Context, chapterID, actorID uuid.UUID, role domain.UserRole) (*PresignedFile, error)
	RequirementFileURL(ctx context.Context, requirementID, actorID uuid.UUID, role domain.UserRole) (*PresignedFile, error)
}

type progressService struct {
	thesisRepo  port.ThesisRepository
	chapterRepo port.ChapterRepository
	reqRepo     port.TerminalRequirementRepository
	groupRepo   port.GroupRepository
	userRepo    port.UserRepository
	storage     port.FileStorage
	cfg         *config.S3Config
	notifSvc    NotificationService
}

// NewProgressService creates a new ProgressService implementation.
func NewProgressService(
	thesisRepo port.ThesisRepository,
	chapterRepo port.ChapterRepository,
	reqRepo port.TerminalRequirementRepository,
	groupRepo port.GroupRepository,
	userRepo port.UserRepository,
	storage port.FileStorage,
	cfg *config.S3Config,
	notifSvc NotificationService,
) ProgressService {
	return &progressService{
		thesisRepo:  thesisRepo,
		chapterRepo: chapterRepo,
		reqRepo:     reqRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		storage:     storage,
		cfg:         cfg,
		notifSvc:    notifSvc,
	}
}

func (s *progressService) CreateChapter(ctx context.Context, input *ChapterInput) (*domain.Chapter, error) {
	thesis, group, err := s.loadThesisGroup(ctx, input.ThesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, input.ActorID); err != nil {
		return nil, err
	}
	if fields := validateChapterInput(input); fields.Any() {
		return nil, fields
	}

	chapter := &domain.Chapter{
		ID:       uuid.New(),
		ThesisID: thesis.ID,
		Number:   input.Number,
		Title:    input.Title,
		Stages:   stagegate.NormalizeStages(input.Stages),
		Status:   domain.WorkStatusPending,
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *progressService) UpdateChapter(ctx context.Context, chapterID uuid.UUID, input *ChapterInput) (*domain.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	_, group, err := s.loadThesisGroup(ctx, chapter.ThesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, input.ActorID); err != nil {
		return nil, err
	}
	if fields := validateChapterInput(input); fields.Any() {
		return nil, fields
	}

	chapter.Number = input.Number
	chapter.Title = input.Title
	chapter.Stages = stagegate.NormalizeStages(input.Stages)
	chapter.UpdatedAt = time.Now().UTC()
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *progressService) DeleteChapter(ctx context.Context, chapterID, actorID uuid.UUID) error {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return err
	}
	_, group, err := s.loadThesisGroup(ctx, chapter.ThesisID)
	if err != nil {
		return err
	}
	if group.LeaderID != actorID {
		return domain.ErrNotGroupLeader
	}
	return s.chapterRepo.Delete(ctx, chapterID)
}

// SubmitChapter attaches the uploaded file and moves the chapter into
// the review queue. Resubmission of a returned chapter goes through the
// same path.
func (s *progressService) SubmitChapter(ctx context.Context, chapterID, actorID uuid.UUID, fileRef string) (*domain.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	_, group, err := s.loadThesisGroup(ctx, chapter.ThesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileRef) == "" {
		return nil, domain.FieldErrors{"file_ref": "file reference is required"}
	}

	chapter.FileRef = fileRef
	chapter.Status = domain.WorkStatusForReview
	chapter.ReviewedBy = nil
	chapter.ReviewedAt = nil
	chapter.UpdatedAt = time.Now().UTC()
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}

	s.notifyRole(ctx, domain.RoleModerator, domain.CategoryChapter, "chapter_submitted", map[string]any{
		"thesis_id":  chapter.ThesisID.String(),
		"chapter_id": chapter.ID.String(),
		"title":      chapter.Title,
		"group_code": group.Code,
	})
	return chapter, nil
}

// ReviewChapter records a reviewer's verdict: approved or returned.
func (s *progressService) ReviewChapter(ctx context.Context, input *ReviewWorkInput) (*domain.Chapter, error) {
	if err := requireReviewer(input.ReviewerRole); err != nil {
		return nil, err
	}
	if fields := validateVerdict(input.Status); fields.Any() {
		return nil, fields
	}
	chapter, err := s.chapterRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if chapter.Status != domain.WorkStatusForReview {
		return nil, domain.ErrStageMismatch
	}
	_, group, err := s.loadThesisGroup(ctx, chapter.ThesisID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	chapter.Status = input.Status
	chapter.ReviewedBy = &input.ReviewerID
	chapter.ReviewedAt = &now
	chapter.UpdatedAt = now
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}

	s.notifyGroup(ctx, group, domain.CategoryChapter, "chapter_"+string(input.Status), map[string]any{
		"thesis_id":  chapter.ThesisID.String(),
		"chapter_id": chapter.ID.String(),
		"title":      chapter.Title,
		"status":     string(input.Status),
	})
	return chapter, nil
}

func (s *progressService) CreateRequirement(ctx context.Context, input *RequirementInput) (*domain.TerminalRequirement, error) {
	thesis, group, err := s.loadThesisGroup(ctx, input.ThesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, input.ActorID); err != nil {
		return nil, err
	}

	fields := domain.FieldErrors{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	stage, ok := domain.ParseStage(input.Stage)
	if !ok {
		fields["stage"] = "unknown stage"
	}
	if fields.Any() {
		return nil, fields
	}

	req := &domain.TerminalRequirement{
		ID:       uuid.New(),
		ThesisID: thesis.ID,
		Name:     input.Name,
		Stage:    stage,
		Status:   domain.WorkStatusPending,
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *progressService) DeleteRequirement(ctx context.Context, requirementID, actorID uuid.UUID) error {
	req, err := s.reqRepo.GetByID(ctx, requirementID)
	if err != nil {
		return err
	}
	_, group, err := s.loadThesisGroup(ctx, req.ThesisID)
	if err != nil {
		return err
	}
	if group.LeaderID != actorID {
		return domain.ErrNotGroupLeader
	}
	return s.reqRepo.Delete(ctx, requirementID)
}

func (s *progressService) SubmitRequirement(ctx context.Context, requirementID, actorID uuid.UUID, fileRef string) (*domain.TerminalRequirement, error) {
	req, err := s.reqRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	_, group, err := s.loadThesisGroup(ctx, req.ThesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileRef) == "" {
		return nil, domain.FieldErrors{"file_ref": "file reference is required"}
	}

	req.FileRef = fileRef
	req.Status = domain.WorkStatusForReview
	req.ReviewedBy = nil
	req.ReviewedAt = nil
	req.UpdatedAt = time.Now().UTC()
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.notifyRole(ctx, domain.RoleModerator, domain.CategoryTerminalRequirement, "requirement_submitted", map[string]any{
		"thesis_id":      req.ThesisID.String(),
		"requirement_id": req.ID.String(),
		"name":           req.Name,
		"stage":          string(req.Stage),
		"group_code":     group.Code,
	})
	return req, nil
}

func (s *progressService) ReviewRequirement(ctx context.Context, input *ReviewWorkInput) (*domain.TerminalRequirement, error) {
	if err := requireReviewer(input.ReviewerRole); err != nil {
		return nil, err
	}
	if fields := validateVerdict(input.Status); fields.Any() {
		return nil, fields
	}
	req, err := s.reqRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.WorkStatusForReview {
		return nil, domain.ErrStageMismatch
	}
	_, group, err := s.loadThesisGroup(ctx, req.ThesisID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req.Status = input.Status
	req.ReviewedBy = &input.ReviewerID
	req.ReviewedAt = &now
	req.UpdatedAt = now
	if err := s.reqRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.notifyGroup(ctx, group, domain.CategoryTerminalRequirement, "requirement_"+string(input.Status), map[string]any{
		"thesis_id":      req.ThesisID.String(),
		"requirement_id": req.ID.String(),
		"name":           req.Name,
		"status":         string(input.Status),
	})
	return req, nil
}

// Progress assembles the full gating snapshot for a thesis.
func (s *progressService) Progress(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole) (*ProgressSnapshot, error) {
	thesis, _, err := s.loadThesisGroup(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, thesis.GroupID, actorID, role); err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.ListByThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.reqRepo.ListByThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}

	chapterItems := stagegate.ChapterItems(chapters)
	reqItems := stagegate.RequirementItems(reqs)

	progress := make(map[stagegate.Step]bool, len(domain.StageOrder)*2)
	for _, st := range domain.StageOrder {
		progress[stagegate.Step{Stage: st, Target: stagegate.TargetChapters}] = stagegate.Completion(chapterItems, st, stagegate.Options{})
		progress[stagegate.Step{Stage: st, Target: stagegate.TargetTerminal}] = stagegate.Completion(reqItems, st, stagegate.Options{})
	}
	locks := stagegate.InterleavedLocks(progress, nil)

	stageComplete := make(map[domain.Stage]bool, len(domain.StageOrder))
	stages := make([]StageProgress, 0, len(domain.StageOrder))
	for _, st := range domain.StageOrder {
		chStep := stagegate.Step{Stage: st, Target: stagegate.TargetChapters}
		termStep := stagegate.Step{Stage: st, Target: stagegate.TargetTerminal}
		stageComplete[st] = progress[chStep]
		stages = append(stages, StageProgress{
			Stage:            st,
			Title:            domain.StageTitles[st],
			ChaptersComplete: progress[chStep],
			ChaptersLocked:   locks[chStep],
			TerminalComplete: progress[termStep],
			TerminalLocked:   locks[termStep],
		})
	}

	return &ProgressSnapshot{
		ThesisID:     thesisID,
		CurrentStage: stagegate.CurrentStage(stageComplete, locks),
		Stages:       stages,
		Chapters:     chapters,
		Requirements: reqs,
	}, nil
}

// UploadURL presigns a PUT for a new file under the thesis prefix.
func (s *progressService) UploadURL(ctx context.Context, thesisID, actorID uuid.UUID, filename, contentType string) (*PresignedFile, error) {
	_, group, err := s.loadThesisGroup(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, domain.FieldErrors{"filename": "filename is required"}
	}

	key := fmt.Sprintf("theses/%s/%s-%s", thesisID, uuid.New().String()[:8], sanitizeFilename(filename))
	url, err := s.storage.PresignUpload(ctx, key, contentType, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}
	return &PresignedFile{URL: url, Key: key}, nil
}

// DownloadURL presigns a GET for an already-stored file. The key must
// sit under the thesis prefix so one group cannot read another's files.
func (s *progressService) DownloadURL(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole, key string) (*PresignedFile, error) {
	thesis, _, err := s.loadThesisGroup(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, thesis.GroupID, actorID, role); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(key, fmt.Sprintf("theses/%s/", thesisID)) {
		return nil, domain.ErrForbidden
	}

	url, err := s.storage.PresignDownload(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning download: %w", err)
	}
	return &PresignedFile{URL: url, Key: key}, nil
}

// ChapterFileURL presigns a GET for the chapter's submitted file.
func (s *progressService) ChapterFileURL(ctx context.Context, chapterID, actorID uuid.UUID, role domain.UserRole) (*PresignedFile, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	return s.workFileURL(ctx, chapter.ThesisID, actorID, role, chapter.FileRef)
}

// RequirementFileURL presigns a GET for the requirement's submitted file.
func (s *progressService) RequirementFileURL(ctx context.Context, requirementID, actorID uuid.UUID, role domain.UserRole) (*PresignedFile, error) {
	req, err := s.reqRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	return s.workFileURL(ctx, req.ThesisID, actorID, role, req.FileRef)
}

func (s *progressService) workFileURL(ctx context.Context, thesisID, actorID uuid.UUID, role domain.UserRole, fileRef string) (*PresignedFile, error) {
	thesis, _, err := s.loadThesisGroup(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, thesis.GroupID, actorID, role); err != nil {
		return nil, err
	}
	if fileRef == "" {
		return nil, domain.ErrNotFound
	}

	url, err := s.storage.PresignDownload(ctx, fileRef, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning download: %w", err)
	}
	return &PresignedFile{URL: url, Key: fileRef}, nil
}

func (s *progressService) loadThesisGroup(ctx context.Context, thesisID uuid.UUID) (*domain.Thesis, *domain.Group, error) {
	thesis, err := s.thesisRepo.GetByID(ctx, thesisID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, thesis.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return thesis, group, nil
}

func (s *progressService) requireMember(ctx context.Context, group *domain.Group, actorID uuid.UUID) error {
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

func (s *progressService) canView(ctx context.Context, groupID, actorID uuid.UUID, role domain.UserRole) error {
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

func (s *progressService) notifyGroup(ctx context.Context, group *domain.Group, category domain.NotificationCategory, action string, details map[string]any) {
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		log.Printf("progressService.notifyGroup: listing members of %s: %v", group.ID, err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, m.ID)
	}
	if err := s.notifSvc.Notify(ctx, &NotifyInput{
		Recipients: recipients,
		Category:   category,
		Action:     action,
		Details:    details,
	}); err != nil {
		log.Printf("progressService.notifyGroup: %v", err)
	}
}

func (s *progressService) notifyRole(ctx context.Context, role domain.UserRole, category domain.NotificationCategory, action string, details map[string]any) {
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		log.Printf("progressService.notifyRole: listing %s users: %v", role, err)
		return
	}
	recipients := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, u.ID)
	}
	if err := s.notifSvc.Notify(ctx, &NotifyInput{
		Recipients: recipients,
		Category:   category,
		Action:     action,
		Details:    details,
	}); err != nil {
		log.Printf("progressService.notifyRole: %v", err)
	}
}

func requireReviewer(role domain.UserRole) error {
	switch role {
	case domain.RoleModerator, domain.RoleChair, domain.RoleHead, domain.RoleAdmin:
		return nil
	}
	return domain.ErrForbidden
}

func validateChapterInput(input *ChapterInput) domain.FieldErrors {
	fields := domain.FieldErrors{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "title is required"
	}
	if input.Number <= 0 {
		fields["number"] = "number must be positive"
	}
	return fields
}

func validateVerdict(status domain.WorkStatus) domain.FieldErrors {
	fields := domain.FieldErrors{}
	if status != domain.WorkStatusApproved && status != domain.WorkStatusReturned {
		fields["status"] = "status must be approved or returned"
	}
	return fields
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return -1
	}, name)
}
