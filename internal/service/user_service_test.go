package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
)

func TestUserService_ApproveJoinRequest(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:               userID,
		InvitationStatus: model.InvitationPending,
		Active:           false,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(mockRepo)
	user, err := service.ApproveJoinRequest(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, model.InvitationAccepted, user.InvitationStatus)
	assert.True(t, user.Active)
	assert.True(t, user.CanAuthenticate())
	mockRepo.AssertExpectations(t)
}

func TestUserService_RejectJoinRequest(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:               userID,
		InvitationStatus: model.InvitationPending,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(mockRepo)
	user, err := service.RejectJoinRequest(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, model.InvitationRejected, user.InvitationStatus)
	assert.False(t, user.CanAuthenticate())
}

func TestUserService_SetRole(t *testing.T) {
	t.Run("regular role change", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:   userID,
			Role: model.RoleUser,
		}, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := NewUserService(mockRepo)
		user, err := service.SetRole(context.Background(), userID, model.RoleManager)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleManager, user.Role)
	})

	t.Run("master role cannot be revoked", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:   userID,
			Role: model.RoleMaster,
		}, nil)

		service := NewUserService(mockRepo)
		_, err := service.SetRole(context.Background(), userID, model.RoleUser)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("master role cannot be granted", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:   userID,
			Role: model.RoleAdmin,
		}, nil)

		service := NewUserService(mockRepo)
		_, err := service.SetRole(context.Background(), userID, model.RoleMaster)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("regular user is deleted", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:   userID,
			Role: model.RoleUser,
		}, nil)
		mockRepo.On("Delete", mock.Anything, userID).Return(nil)

		service := NewUserService(mockRepo)
		assert.NoError(t, service.DeleteUser(context.Background(), userID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("master account cannot be deleted", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:   userID,
			Role: model.RoleMaster,
		}, nil)

		service := NewUserService(mockRepo)
		assert.Error(t, service.DeleteUser(context.Background(), userID))
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		userID := uuid.New()
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockRepo)
		assert.ErrorIs(t, service.DeleteUser(context.Background(), userID), errors.ErrUserNotFound)
	})
}
