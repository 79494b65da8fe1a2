package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
	"gradus/mocks"
)

func setupThesisService() (service.ThesisService, *mocks.MockThesisRepo, *mocks.MockGroupRepo) {
	thesisRepo := new(mocks.MockThesisRepo)
	groupRepo := new(mocks.MockGroupRepo)
	svc := service.NewThesisService(thesisRepo, groupRepo)
	return svc, thesisRepo, groupRepo
}

func testThesis(group *domain.Group) *domain.Thesis {
	return &domain.Thesis{
		ID:       uuid.New(),
		GroupID:  group.ID,
		TopicID:  group.Code + "-T1",
		Title:    "Remote Sensing for Crop Yield",
		Keywords: []string{"remote sensing"},
	}
}

func TestThesisService_CreateFromTopic_CarriesTopicFields(t *testing.T) {
	svc, thesisRepo, _ := setupThesisService()

	leaderID := uuid.New()
	group := testGroup(leaderID)
	topic := &domain.TopicProposal{
		ID:          "CS42A-T3",
		Title:       "Remote Sensing for Crop Yield",
		Description: "Satellite imagery analysis",
		Keywords:    []string{"remote sensing", "machine learning"},
		Status:      domain.TopicStatusHeadApproved,
	}

	thesisRepo.On("Create", mock.Anything, mock.MatchedBy(func(th *domain.Thesis) bool {
		return th.GroupID == group.ID &&
			th.TopicID == "CS42A-T3" &&
			th.Title == topic.Title &&
			th.CreatedBy == leaderID
	})).Return(nil)

	thesis, err := svc.CreateFromTopic(context.Background(), group, topic, leaderID)

	assert.NoError(t, err)
	assert.Equal(t, topic.Keywords, thesis.Keywords)
	thesisRepo.AssertExpectations(t)
}

func TestThesisService_CreateFromTopic_SecondThesisRejected(t *testing.T) {
	svc, thesisRepo, _ := setupThesisService()

	group := testGroup(uuid.New())
	topic := &domain.TopicProposal{ID: "CS42A-T1", Title: "Topic", Status: domain.TopicStatusHeadApproved}

	thesisRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrThesisChosen)

	thesis, err := svc.CreateFromTopic(context.Background(), group, topic, group.LeaderID)

	assert.Nil(t, thesis)
	assert.ErrorIs(t, err, domain.ErrThesisChosen)
}

func TestThesisService_GetByID_MemberAllowed(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	memberID := uuid.New()
	group := testGroup(uuid.New())
	thesis := testThesis(group)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, memberID).Return(true, nil)

	result, err := svc.GetByID(context.Background(), thesis.ID, memberID, domain.RoleStudent)

	assert.NoError(t, err)
	assert.Equal(t, thesis.ID, result.ID)
}

func TestThesisService_GetByID_OutsiderForbidden(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	outsiderID := uuid.New()
	group := testGroup(uuid.New())
	thesis := testThesis(group)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, outsiderID).Return(false, nil)

	result, err := svc.GetByID(context.Background(), thesis.ID, outsiderID, domain.RoleStudent)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotGroupMember)
}

func TestThesisService_GetByGroup_ReviewerBypassesMembership(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	group := testGroup(uuid.New())
	thesis := testThesis(group)

	thesisRepo.On("GetByGroup", mock.Anything, group.ID).Return(thesis, nil)

	result, err := svc.GetByGroup(context.Background(), group.ID, uuid.New(), domain.RoleHead)

	assert.NoError(t, err)
	assert.Equal(t, thesis.ID, result.ID)
	groupRepo.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestThesisService_UpdateDetails_LeaderOnly(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	group := testGroup(uuid.New())
	thesis := testThesis(group)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	result, err := svc.UpdateDetails(context.Background(), &service.UpdateThesisInput{
		ThesisID: thesis.ID,
		ActorID:  uuid.New(),
		Title:    "New Title",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotGroupLeader)
	thesisRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestThesisService_UpdateDetails_TitleRequired(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	leaderID := uuid.New()
	group := testGroup(leaderID)
	thesis := testThesis(group)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	result, err := svc.UpdateDetails(context.Background(), &service.UpdateThesisInput{
		ThesisID: thesis.ID,
		ActorID:  leaderID,
		Title:    "",
	})

	assert.Nil(t, result)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "title")
}

func TestThesisService_UpdateDetails_Success(t *testing.T) {
	svc, thesisRepo, groupRepo := setupThesisService()

	leaderID := uuid.New()
	group := testGroup(leaderID)
	thesis := testThesis(group)

	thesisRepo.On("GetByID", mock.Anything, thesis.ID).Return(thesis, nil)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	thesisRepo.On("Update", mock.Anything, mock.MatchedBy(func(th *domain.Thesis) bool {
		return th.Title == "Refined Title" && len(th.Keywords) == 2
	})).Return(nil)

	result, err := svc.UpdateDetails(context.Background(), &service.UpdateThesisInput{
		ThesisID:    thesis.ID,
		ActorID:     leaderID,
		Title:       "Refined Title",
		Description: "Updated scope",
		Keywords:    []string{"remote sensing", "yield"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Refined Title", result.Title)
}
