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

func setupGroupService() (service.GroupService, *mocks.MockGroupRepo, *mocks.MockUserRepo, *mocks.MockNotificationService) {
	groupRepo := new(mocks.MockGroupRepo)
	userRepo := new(mocks.MockUserRepo)
	notifSvc := new(mocks.MockNotificationService)

	groupRepo.On("ListMembers", mock.Anything, mock.Anything).Return([]domain.User{}, nil).Maybe()
	notifSvc.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := service.NewGroupService(groupRepo, userRepo, notifSvc)
	return svc, groupRepo, userRepo, notifSvc
}

func TestGroupService_Create_EnrollsLeaderAndMembers(t *testing.T) {
	svc, groupRepo, userRepo, _ := setupGroupService()

	leaderID := uuid.New()
	memberID := uuid.New()
	leader := &domain.User{ID: leaderID, Role: domain.RoleStudent, IsActive: true}

	groupRepo.On("GetByCode", mock.Anything, "CS42A").Return(nil, domain.ErrGroupNotFound)
	userRepo.On("GetByID", mock.Anything, leaderID).Return(leader, nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Group")).Return(nil)

	var enrolled []uuid.UUID
	groupRepo.On("AddMember", mock.Anything, mock.AnythingOfType("*domain.GroupMember")).
		Run(func(args mock.Arguments) {
			enrolled = append(enrolled, args.Get(1).(*domain.GroupMember).UserID)
		}).Return(nil)

	group, err := svc.Create(context.Background(), &service.CreateGroupInput{
		Code:      "cs42a",
		Name:      "Crop Sense",
		LeaderID:  leaderID,
		MemberIDs: []uuid.UUID{memberID, memberID, leaderID},
	}, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "CS42A", group.Code)
	assert.Equal(t, leaderID, group.LeaderID)
	assert.ElementsMatch(t, []uuid.UUID{leaderID, memberID}, enrolled)
}

func TestGroupService_Create_DuplicateCode(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	existing := testGroup(uuid.New())
	groupRepo.On("GetByCode", mock.Anything, "CS42A").Return(existing, nil)

	group, err := svc.Create(context.Background(), &service.CreateGroupInput{
		Code:     "CS42A",
		Name:     "Another Group",
		LeaderID: uuid.New(),
	}, uuid.New())

	assert.Nil(t, group)
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGroupService_Create_BlankFields(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	group, err := svc.Create(context.Background(), &service.CreateGroupInput{
		Code:     "   ",
		Name:     "",
		LeaderID: uuid.New(),
	}, uuid.New())

	assert.Nil(t, group)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "code")
	assert.Contains(t, fields, "name")
	groupRepo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestGroupService_AddMember_LeaderMayManage(t *testing.T) {
	svc, groupRepo, userRepo, _ := setupGroupService()

	leaderID := uuid.New()
	newMemberID := uuid.New()
	group := testGroup(leaderID)

	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	userRepo.On("GetByID", mock.Anything, newMemberID).
		Return(&domain.User{ID: newMemberID, IsActive: true}, nil)
	groupRepo.On("AddMember", mock.Anything, mock.MatchedBy(func(m *domain.GroupMember) bool {
		return m.GroupID == group.ID && m.UserID == newMemberID && m.AddedBy == leaderID
	})).Return(nil)

	err := svc.AddMember(context.Background(), group.ID, newMemberID, leaderID, domain.RoleStudent)

	assert.NoError(t, err)
	groupRepo.AssertExpectations(t)
}

func TestGroupService_AddMember_NonLeaderForbidden(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	group := testGroup(uuid.New())
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	err := svc.AddMember(context.Background(), group.ID, uuid.New(), uuid.New(), domain.RoleStudent)

	assert.ErrorIs(t, err, domain.ErrNotGroupLeader)
	groupRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestGroupService_AddMember_AdminBypassesLeaderCheck(t *testing.T) {
	svc, groupRepo, userRepo, _ := setupGroupService()

	adminID := uuid.New()
	newMemberID := uuid.New()
	group := testGroup(uuid.New())

	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	userRepo.On("GetByID", mock.Anything, newMemberID).
		Return(&domain.User{ID: newMemberID, IsActive: true}, nil)
	groupRepo.On("AddMember", mock.Anything, mock.Anything).Return(nil)

	err := svc.AddMember(context.Background(), group.ID, newMemberID, adminID, domain.RoleAdmin)

	assert.NoError(t, err)
}

func TestGroupService_RemoveMember_LeaderCannotBeRemoved(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	leaderID := uuid.New()
	group := testGroup(leaderID)
	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)

	err := svc.RemoveMember(context.Background(), group.ID, leaderID, leaderID, domain.RoleStudent)

	assert.ErrorIs(t, err, domain.ErrLeaderNotMember)
	groupRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestGroupService_ChangeLeader_MustBeMember(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	group := testGroup(uuid.New())
	outsiderID := uuid.New()

	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, outsiderID).Return(false, nil)

	result, err := svc.ChangeLeader(context.Background(), group.ID, outsiderID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrLeaderNotMember)
	groupRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGroupService_ChangeLeader_Success(t *testing.T) {
	svc, groupRepo, _, _ := setupGroupService()

	group := testGroup(uuid.New())
	newLeaderID := uuid.New()

	groupRepo.On("GetByID", mock.Anything, group.ID).Return(group, nil)
	groupRepo.On("IsMember", mock.Anything, group.ID, newLeaderID).Return(true, nil)
	groupRepo.On("Update", mock.Anything, mock.MatchedBy(func(g *domain.Group) bool {
		return g.LeaderID == newLeaderID
	})).Return(nil)

	result, err := svc.ChangeLeader(context.Background(), group.ID, newLeaderID)

	assert.NoError(t, err)
	assert.Equal(t, newLeaderID, result.LeaderID)
}
