package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/handler"
	"gradus/internal/service"
	"gradus/mocks"
)

func TestGroupHandler_Create_Success(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	actorID := uuid.New()
	leaderID := uuid.New()
	created := &domain.Group{
		ID:       uuid.New(),
		Code:     "CS42A",
		Name:     "Crop Sense",
		LeaderID: leaderID,
	}
	mockGroups.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateGroupInput) bool {
		return in.Code == "CS42A" && in.LeaderID == leaderID
	}), actorID).Return(created, nil)

	body, _ := json.Marshal(map[string]any{
		"code":      "CS42A",
		"name":      "Crop Sense",
		"leader_id": leaderID,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, actorID, domain.RoleAdmin)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockGroups.AssertExpectations(t)
}

func TestGroupHandler_Create_DuplicateCode(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	mockGroups.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrDuplicateCode)

	body, _ := json.Marshal(map[string]any{
		"code":      "CS42A",
		"name":      "Crop Sense",
		"leader_id": uuid.New(),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), domain.RoleAdmin)

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DUPLICATE_CODE", resp.Error.Code)
}

func TestGroupHandler_GetByID_InvalidID(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/groups/not-a-uuid", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockGroups.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGroupHandler_ListMine_Success(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	userID := uuid.New()
	mockGroups.On("ListForUser", mock.Anything, userID).Return([]domain.Group{
		{ID: uuid.New(), Code: "CS42A"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/groups/mine", http.NoBody)
	setAuthContext(c, userID, domain.RoleStudent)

	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockGroups.AssertExpectations(t)
}

func TestGroupHandler_AddMember_Forbidden(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	groupID := uuid.New()
	actorID := uuid.New()
	memberID := uuid.New()
	mockGroups.On("AddMember", mock.Anything, groupID, memberID, actorID, domain.RoleStudent).
		Return(domain.ErrNotGroupLeader)

	body, _ := json.Marshal(map[string]any{"user_id": memberID})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/groups/"+groupID.String()+"/members", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: groupID.String()}}
	setAuthContext(c, actorID, domain.RoleStudent)

	h.AddMember(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_GROUP_LEADER", resp.Error.Code)
}

func TestGroupHandler_RemoveMember_LeaderBlocked(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	groupID := uuid.New()
	leaderID := uuid.New()
	mockGroups.On("RemoveMember", mock.Anything, groupID, leaderID, leaderID, domain.RoleStudent).
		Return(domain.ErrLeaderNotMember)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/groups/"+groupID.String()+"/members/"+leaderID.String(), http.NoBody)
	c.Params = gin.Params{
		{Key: "id", Value: groupID.String()},
		{Key: "userID", Value: leaderID.String()},
	}
	setAuthContext(c, leaderID, domain.RoleStudent)

	h.RemoveMember(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupHandler_ChangeLeader_Success(t *testing.T) {
	mockGroups := new(mocks.MockGroupService)
	h := handler.NewGroupHandler(mockGroups)

	groupID := uuid.New()
	newLeaderID := uuid.New()
	updated := &domain.Group{ID: groupID, Code: "CS42A", LeaderID: newLeaderID}
	mockGroups.On("ChangeLeader", mock.Anything, groupID, newLeaderID).Return(updated, nil)

	body, _ := json.Marshal(map[string]any{"user_id": newLeaderID})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/groups/"+groupID.String()+"/leader", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: groupID.String()}}

	h.ChangeLeader(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockGroups.AssertExpectations(t)
}
