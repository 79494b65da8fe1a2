package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradus/internal/config"
	"gradus/internal/domain"
	"gradus/internal/service"
	"gradus/mocks"
)

func setupProgressService() (
	service.ProgressService,
	*mocks.MockThesisRepo,
	*mocks.MockChapterRepo,
	*mocks.MockRequirementRepo,
	*mocks.MockGroupRepo,
	*mocks.MockFileStorage,
	*mocks.MockNotificationService,
) {
	thesisRepo := new(mocks.MockThesisRepo)
	chapterRepo := new(mocks.MockChapterRepo)
	reqRepo := new(mocks.MockRequirementRepo)
	groupRepo := new(mocks.MockGroupRepo)
	userRepo := new(mocks.MockUserRepo)
	storage := new(mocks.MockFileStorage)
	notifSvc := new(mocks.MockNotificationService)

	userRepo.On("ListByRole", mock.Anything, mock.Anything).
		Return([]domain.User{{ID: uuid.New(), Role: domain.RoleModerator}}, nil).Maybe()
	groupRepo.On("ListMembers", mock.Anything, mock.Anything).
		Return([]domain.User{{ID: uuid.New()}}, nil).Maybe()
	notifSvc.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := &config.S3Config{Bucket: "gradus-files", PresignExpiry: 900}
	svc := service.NewProgressService(thesisRepo, chapterRepo, reqRepo, groupRepo, userRepo, storage, cfg, notifSvc)
	return svc, thesisRepo, chapterRepo, reqRepo, groupRepo, storage, notifSvc
}

func progressFixture(leaderID uuid.UUID) (*domain.Group, *domain.Thesis) {
	group := &domain.Group{ID: uuid.New(), Code: "CS42A", Name: "Crop Sense", LeaderID: leaderID}
	thesis := &domain.Thesis{
		ID:      uuid.New(),
		GroupID: group.ID,
		TopicID: "CS42A-T1",
		Title:   "Yield prediction from drone imagery",
	}
	return group, thesis
}

func stageChapter(thesisID uuid.UUID, number int, status domain.WorkStatus, stages ...domain.Stage) domain.Chapter {
	return domain.Chapter{
		ID:       uuid.New(),
		ThesisID: thesisID,
		Number:   number,
		Title:    fmt.Sprintf("Chapter %d", number),
		Stages:   stages,
		Status:   status,
	}
}

func stageRequirement(thesisID uuid.UUID, name string, stage domain.Stage, status domain.WorkStatus) domain.TerminalRequirement {
	return domain.TerminalRequirement{
		ID:       uuid.New(),
		ThesisID: thesisID,
		Name:     name,
		Stage:    stage,
		Status:   status,
	}
}

// --- CreateChapter ---

func TestProgressService_CreateChapter_NormalizesStages(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	chapterRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Chapter")).Return(nil)

	chapter, err := svc.CreateChapter(context.Background(), &service.ChapterInput{
		ThesisID: thesis.ID,
		ActorID:  leaderID,
		Number:   1,
		Title:    "Introduction",
		Stages:   []string{"Post-Proposal", "pre_proposal", "PRE PROPOSAL"},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.WorkStatusPending, chapter.Status)
	assert.Equal(t, []domain.Stage{domain.StagePreProposal, domain.StagePostProposal}, chapter.Stages)
	chapterRepo.AssertExpectations(t)
}

func TestProgressService_CreateChapter_Validation(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	_, err := svc.CreateChapter(context.Background(), &service.ChapterInput{
		ThesisID: thesis.ID,
		ActorID:  leaderID,
		Number:   0,
		Title:    "  ",
	})

	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "number")
	chapterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProgressService_CreateChapter_NonMember(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	outsider := uuid.New()

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, outsider).Return(false, nil)

	_, err := svc.CreateChapter(context.Background(), &service.ChapterInput{
		ThesisID: thesis.ID,
		ActorID:  outsider,
		Number:   1,
		Title:    "Introduction",
	})

	assert.ErrorIs(t, err, domain.ErrNotGroupMember)
	chapterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProgressService_DeleteChapter_LeaderOnly(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	chapter := stageChapter(thesis.ID, 1, domain.WorkStatusPending, domain.StagePreProposal)

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	err := svc.DeleteChapter(context.Background(), chapter.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotGroupLeader)
	chapterRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- SubmitChapter ---

func TestProgressService_SubmitChapter_MovesToReview(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, notifSvc := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)
	chapter := stageChapter(thesis.ID, 2, domain.WorkStatusReturned, domain.StagePreProposal)
	previousReviewer := uuid.New()
	chapter.ReviewedBy = &previousReviewer

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	chapterRepo.On("Update", mock.Anything, &chapter).Return(nil)

	result, err := svc.SubmitChapter(context.Background(), chapter.ID, leaderID, "theses/"+thesis.ID.String()+"/a1b2c3d4-chapter2.pdf")

	assert.NoError(t, err)
	assert.Equal(t, domain.WorkStatusForReview, result.Status)
	assert.NotEmpty(t, result.FileRef)
	assert.Nil(t, result.ReviewedBy)
	assert.Nil(t, result.ReviewedAt)
	notifSvc.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(in *service.NotifyInput) bool {
		return in.Action == "chapter_submitted" && in.Category == domain.CategoryChapter
	}))
}

func TestProgressService_SubmitChapter_MissingFile(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)
	chapter := stageChapter(thesis.ID, 1, domain.WorkStatusPending, domain.StagePreProposal)

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	_, err := svc.SubmitChapter(context.Background(), chapter.ID, leaderID, "   ")

	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "file_ref")
	chapterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- ReviewChapter ---

func TestProgressService_ReviewChapter_StudentForbidden(t *testing.T) {
	svc, _, chapterRepo, _, _, _, _ := setupProgressService()

	_, err := svc.ReviewChapter(context.Background(), &service.ReviewWorkInput{
		ID:           uuid.New(),
		ReviewerID:   uuid.New(),
		ReviewerRole: domain.RoleStudent,
		Status:       domain.WorkStatusApproved,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	chapterRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProgressService_ReviewChapter_InvalidVerdict(t *testing.T) {
	svc, _, chapterRepo, _, _, _, _ := setupProgressService()

	_, err := svc.ReviewChapter(context.Background(), &service.ReviewWorkInput{
		ID:           uuid.New(),
		ReviewerID:   uuid.New(),
		ReviewerRole: domain.RoleModerator,
		Status:       domain.WorkStatusPending,
	})

	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "status")
	chapterRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProgressService_ReviewChapter_NotQueued(t *testing.T) {
	svc, _, chapterRepo, _, _, _, _ := setupProgressService()

	chapter := stageChapter(uuid.New(), 1, domain.WorkStatusPending, domain.StagePreProposal)
	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)

	_, err := svc.ReviewChapter(context.Background(), &service.ReviewWorkInput{
		ID:           chapter.ID,
		ReviewerID:   uuid.New(),
		ReviewerRole: domain.RoleModerator,
		Status:       domain.WorkStatusApproved,
	})

	assert.ErrorIs(t, err, domain.ErrStageMismatch)
	chapterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProgressService_ReviewChapter_ApprovedNotifiesGroup(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, notifSvc := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	chapter := stageChapter(thesis.ID, 1, domain.WorkStatusForReview, domain.StagePreProposal)
	reviewerID := uuid.New()

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	chapterRepo.On("Update", mock.Anything, &chapter).Return(nil)

	result, err := svc.ReviewChapter(context.Background(), &service.ReviewWorkInput{
		ID:           chapter.ID,
		ReviewerID:   reviewerID,
		ReviewerRole: domain.RoleChair,
		Status:       domain.WorkStatusApproved,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.WorkStatusApproved, result.Status)
	assert.Equal(t, reviewerID, *result.ReviewedBy)
	assert.NotNil(t, result.ReviewedAt)
	notifSvc.AssertCalled(t, "Notify", mock.Anything, mock.MatchedBy(func(in *service.NotifyInput) bool {
		return in.Action == "chapter_approved"
	}))
}

// --- CreateRequirement ---

func TestProgressService_CreateRequirement_UnknownStage(t *testing.T) {
	svc, thesisRepo, _, reqRepo, groupRepo, _, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	_, err := svc.CreateRequirement(context.Background(), &service.RequirementInput{
		ThesisID: thesis.ID,
		ActorID:  leaderID,
		Name:     "Ethics clearance",
		Stage:    "mid_defense",
	})

	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "stage")
	reqRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProgressService_CreateRequirement_ParsesLegacyStage(t *testing.T) {
	svc, thesisRepo, _, reqRepo, groupRepo, _, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	reqRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TerminalRequirement")).Return(nil)

	req, err := svc.CreateRequirement(context.Background(), &service.RequirementInput{
		ThesisID: thesis.ID,
		ActorID:  leaderID,
		Name:     "Proposal defense panel form",
		Stage:    "Pre-Defense",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StagePreDefense, req.Stage)
	assert.Equal(t, domain.WorkStatusPending, req.Status)
}

// --- Progress ---

func TestProgressService_Progress_GatingSnapshot(t *testing.T) {
	svc, thesisRepo, chapterRepo, reqRepo, groupRepo, _, _ := setupProgressService()

	memberID := uuid.New()
	group, thesis := progressFixture(uuid.New())

	chapters := []domain.Chapter{
		stageChapter(thesis.ID, 1, domain.WorkStatusApproved, domain.StagePreProposal),
		stageChapter(thesis.ID, 2, domain.WorkStatusPending, domain.StagePostProposal),
	}
	reqs := []domain.TerminalRequirement{
		stageRequirement(thesis.ID, "Proposal manuscript", domain.StagePreProposal, domain.WorkStatusApproved),
		stageRequirement(thesis.ID, "Revised manuscript", domain.StagePostProposal, domain.WorkStatusPending),
	}

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, memberID).Return(true, nil)
	chapterRepo.On("ListByThesis", mock.Anything, thesis.ID).Return(chapters, nil)
	reqRepo.On("ListByThesis", mock.Anything, thesis.ID).Return(reqs, nil)

	snapshot, err := svc.Progress(context.Background(), thesis.ID, memberID, domain.RoleStudent)

	assert.NoError(t, err)
	assert.Equal(t, domain.StagePostProposal, snapshot.CurrentStage)
	assert.Len(t, snapshot.Stages, 4)

	preProposal := snapshot.Stages[0]
	assert.Equal(t, domain.StagePreProposal, preProposal.Stage)
	assert.True(t, preProposal.ChaptersComplete)
	assert.False(t, preProposal.ChaptersLocked)
	assert.True(t, preProposal.TerminalComplete)
	assert.False(t, preProposal.TerminalLocked)

	postProposal := snapshot.Stages[1]
	assert.False(t, postProposal.ChaptersComplete)
	assert.False(t, postProposal.ChaptersLocked)
	assert.True(t, postProposal.TerminalLocked, "terminal work waits for the stage's chapters")

	preDefense := snapshot.Stages[2]
	assert.True(t, preDefense.ChaptersLocked)
	assert.True(t, preDefense.TerminalLocked)

	assert.Len(t, snapshot.Chapters, 2)
	assert.Len(t, snapshot.Requirements, 2)
}

func TestProgressService_Progress_OutsiderForbidden(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, _, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	outsider := uuid.New()

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, outsider).Return(false, nil)

	_, err := svc.Progress(context.Background(), thesis.ID, outsider, domain.RoleStudent)

	assert.ErrorIs(t, err, domain.ErrNotGroupMember)
	chapterRepo.AssertNotCalled(t, "ListByThesis", mock.Anything, mock.Anything)
}

func TestProgressService_Progress_ReviewerSkipsMembership(t *testing.T) {
	svc, thesisRepo, chapterRepo, reqRepo, groupRepo, _, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	chapterRepo.On("ListByThesis", mock.Anything, thesis.ID).Return([]domain.Chapter{}, nil)
	reqRepo.On("ListByThesis", mock.Anything, thesis.ID).Return([]domain.TerminalRequirement{}, nil)

	snapshot, err := svc.Progress(context.Background(), thesis.ID, uuid.New(), domain.RoleModerator)

	assert.NoError(t, err)
	assert.Equal(t, domain.StagePreProposal, snapshot.CurrentStage)
	groupRepo.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

// --- presigned files ---

func TestProgressService_UploadURL_KeysUnderThesisPrefix(t *testing.T) {
	svc, thesisRepo, _, _, groupRepo, storage, _ := setupProgressService()

	leaderID := uuid.New()
	group, thesis := progressFixture(leaderID)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	storage.On("PresignUpload", mock.Anything, mock.AnythingOfType("string"), "application/pdf", int64(900)).
		Return("https://bucket.s3.amazonaws.com/upload", nil)

	file, err := svc.UploadURL(context.Background(), thesis.ID, leaderID, "Final Draft v2.pdf", "application/pdf")

	assert.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/upload", file.URL)
	assert.True(t, strings.HasPrefix(file.Key, "theses/"+thesis.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(file.Key, "-Final_Draft_v2.pdf"))
}

func TestProgressService_DownloadURL_ForeignKeyForbidden(t *testing.T) {
	svc, thesisRepo, _, _, groupRepo, storage, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	foreignKey := "theses/" + uuid.New().String() + "/draft.pdf"
	_, err := svc.DownloadURL(context.Background(), thesis.ID, uuid.New(), domain.RoleModerator, foreignKey)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	storage.AssertNotCalled(t, "PresignDownload", mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_DownloadURL_ReviewerSkipsMembership(t *testing.T) {
	svc, thesisRepo, _, _, groupRepo, storage, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	key := "theses/" + thesis.ID.String() + "/a1b2c3d4-draft.pdf"

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	storage.On("PresignDownload", mock.Anything, key, int64(900)).
		Return("https://bucket.s3.amazonaws.com/download", nil)

	file, err := svc.DownloadURL(context.Background(), thesis.ID, uuid.New(), domain.RoleChair, key)

	assert.NoError(t, err)
	assert.Equal(t, key, file.Key)
	groupRepo.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_ChapterFileURL_ReturnsSubmittedFile(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, storage, _ := setupProgressService()

	memberID := uuid.New()
	group, thesis := progressFixture(uuid.New())
	chapter := stageChapter(thesis.ID, 3, domain.WorkStatusForReview, domain.StagePostProposal)
	chapter.FileRef = "theses/" + thesis.ID.String() + "/a1b2c3d4-chapter3.pdf"

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, memberID).Return(true, nil)
	storage.On("PresignDownload", mock.Anything, chapter.FileRef, int64(900)).
		Return("https://bucket.s3.amazonaws.com/download", nil)

	file, err := svc.ChapterFileURL(context.Background(), chapter.ID, memberID, domain.RoleStudent)

	assert.NoError(t, err)
	assert.Equal(t, chapter.FileRef, file.Key)
}

func TestProgressService_ChapterFileURL_NothingSubmitted(t *testing.T) {
	svc, thesisRepo, chapterRepo, _, groupRepo, storage, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	chapter := stageChapter(thesis.ID, 1, domain.WorkStatusPending, domain.StagePreProposal)

	chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(&chapter, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	_, err := svc.ChapterFileURL(context.Background(), chapter.ID, uuid.New(), domain.RoleHead)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "PresignDownload", mock.Anything, mock.Anything, mock.Anything)
}

func TestProgressService_RequirementFileURL_OutsiderForbidden(t *testing.T) {
	svc, thesisRepo, _, reqRepo, groupRepo, storage, _ := setupProgressService()

	group, thesis := progressFixture(uuid.New())
	req := stageRequirement(thesis.ID, "Plagiarism scan", domain.StagePostDefense, domain.WorkStatusForReview)
	req.FileRef = "theses/" + thesis.ID.String() + "/a1b2c3d4-scan.pdf"
	outsider := uuid.New()

	reqRepo.On("GetByID", mock.Anything, req.ID).Return(&req, nil)
	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, outsider).Return(false, nil)

	_, err := svc.RequirementFileURL(context.Background(), req.ID, outsider, domain.RoleStudent)

	assert.ErrorIs(t, err, domain.ErrNotGroupMember)
	storage.AssertNotCalled(t, "PresignDownload", mock.Anything, mock.Anything, mock.Anything)
}
