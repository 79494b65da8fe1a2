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

func TestUserService_Create_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:      "new@uni.edu",
		Password:   "securepassword123",
		FullName:   "New Student",
		Role:       domain.RoleStudent,
		Department: "Computer Science",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@uni.edu", user.Email)
	assert.Equal(t, "New Student", user.FullName)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "Computer Science", user.Department)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "securepassword123", user.PasswordHash)
	repo.AssertExpectations(t)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "new@uni.edu",
		Password: "securepassword123",
		FullName: "New User",
		Role:     "janitor",
	})

	assert.Nil(t, user)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "role")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicateEmail)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "existing@uni.edu",
		Password: "password123",
		FullName: "Test User",
		Role:     domain.RoleModerator,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	repo.On("GetByID", mock.Anything, userID).Return(nil, domain.ErrNotFound)

	user, err := svc.GetByID(context.Background(), userID)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_List_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	expected := []domain.User{
		{ID: uuid.New(), Email: "a@uni.edu"},
		{ID: uuid.New(), Email: "b@uni.edu"},
	}
	repo.On("List", mock.Anything, 0, 20).Return(expected, 2, nil)

	users, total, err := svc.List(context.Background(), 0, 20)

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, total)
}

func TestUserService_ListByRole_RejectsUnknownRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	users, err := svc.ListByRole(context.Background(), "superuser")

	assert.Nil(t, users)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	repo.AssertNotCalled(t, "ListByRole", mock.Anything, mock.Anything)
}

func TestUserService_Update_PartialFields(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	existing := &domain.User{
		ID:       userID,
		Email:    "old@uni.edu",
		FullName: "Old Name",
		Role:     domain.RoleStudent,
		IsActive: true,
	}
	repo.On("GetByID", mock.Anything, userID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	newName := "New Name"
	user, err := svc.Update(context.Background(), userID, service.UpdateUserInput{
		FullName: &newName,
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "old@uni.edu", user.Email)
	assert.Equal(t, domain.RoleStudent, user.Role)
}

func TestUserService_Update_RoleChange(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	existing := &domain.User{ID: userID, Role: domain.RoleModerator, IsActive: true}
	repo.On("GetByID", mock.Anything, userID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	newRole := domain.RoleChair
	user, err := svc.Update(context.Background(), userID, service.UpdateUserInput{
		Role: &newRole,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleChair, user.Role)
}

func TestUserService_Update_UnknownRoleRejected(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	existing := &domain.User{ID: userID, Role: domain.RoleStudent, IsActive: true}
	repo.On("GetByID", mock.Anything, userID).Return(existing, nil)

	badRole := domain.UserRole("warlock")
	user, err := svc.Update(context.Background(), userID, service.UpdateUserInput{
		Role: &badRole,
	})

	assert.Nil(t, user)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	userID := uuid.New()
	repo.On("Delete", mock.Anything, userID).Return(domain.ErrNotFound)

	err := svc.Delete(context.Background(), userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
