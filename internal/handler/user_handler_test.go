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

func TestUserHandler_Create_Success(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	created := &domain.User{
		ID:       uuid.New(),
		Email:    "new@uni.edu",
		FullName: "New Moderator",
		Role:     domain.RoleModerator,
		IsActive: true,
	}
	mockUsers.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateUserInput) bool {
		return in.Email == "new@uni.edu" && in.Role == domain.RoleModerator
	})).Return(created, nil)

	body, _ := json.Marshal(map[string]string{
		"email":     "new@uni.edu",
		"password":  "securepassword",
		"full_name": "New Moderator",
		"role":      "moderator",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUsers.AssertExpectations(t)
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	body, _ := json.Marshal(map[string]string{
		"email":     "new@uni.edu",
		"password":  "short",
		"full_name": "New User",
		"role":      "student",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserHandler_List_RoleFilter(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	mockUsers.On("ListByRole", mock.Anything, domain.RoleModerator).Return([]domain.User{
		{ID: uuid.New(), Role: domain.RoleModerator},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users?role=moderator", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsers.AssertExpectations(t)
}

func TestUserHandler_List_UnknownRoleFilter(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users?role=wizard", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUsers.AssertNotCalled(t, "ListByRole", mock.Anything, mock.Anything)
}

func TestUserHandler_GetByID_SelfAllowed(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	userID := uuid.New()
	mockUsers.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, userID, domain.RoleStudent)

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_GetByID_OtherUserForbidden(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	targetID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/users/"+targetID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	setAuthContext(c, uuid.New(), domain.RoleStudent)

	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUsers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserHandler_Update_NonAdminCannotChangeRole(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	userID := uuid.New()
	body, _ := json.Marshal(map[string]string{"role": "head"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/users/"+userID.String(), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	setAuthContext(c, userID, domain.RoleStudent)

	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers)

	userID := uuid.New()
	mockUsers.On("Delete", mock.Anything, userID).Return(domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/users/"+userID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
