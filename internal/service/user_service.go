package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

// UserService handles user management: join requests, activation and roles.
// Route-level middleware restricts these operations to admin and master.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) []model.User
	ListJoinRequests(ctx context.Context) []model.User
	ApproveJoinRequest(ctx context.Context, id uuid.UUID) (*model.User, error)
	RejectJoinRequest(ctx context.Context, id uuid.UUID) (*model.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users. Read failures degrade to empty.
func (s *userService) ListUsers(ctx context.Context) []model.User {
	users, err := s.repo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("user list degraded to empty result")
		return []model.User{}
	}
	return users
}

// ListJoinRequests returns users with a pending invitation.
func (s *userService) ListJoinRequests(ctx context.Context) []model.User {
	users, err := s.repo.ListByInvitationStatus(ctx, model.InvitationPending)
	if err != nil {
		logrus.WithError(err).Warn("join request list degraded to empty result")
		return []model.User{}
	}
	return users
}

// ApproveJoinRequest accepts a pending user and activates the account.
func (s *userService) ApproveJoinRequest(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.InvitationStatus = model.InvitationAccepted
	user.Active = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("approve join request: %w", err)
	}
	return user, nil
}

// RejectJoinRequest rejects a pending user.
func (s *userService) RejectJoinRequest(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.InvitationStatus = model.InvitationRejected
	user.Active = false
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("reject join request: %w", err)
	}
	return user, nil
}

// SetActive enables or disables a user account.
func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set user active: %w", err)
	}
	return user, nil
}

// SetRole changes a user's role. The master role is fixed: it can neither be
// granted nor revoked here.
func (s *userService) SetRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleMaster || role == model.RoleMaster {
		return nil, fmt.Errorf("master role cannot be changed")
	}
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set user role: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user. Master accounts cannot be deleted.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleMaster {
		return fmt.Errorf("master account cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
