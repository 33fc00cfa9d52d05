package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a user's access level.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	// RoleMaster is the fixed super-admin role with full user-management
	// rights.
	RoleMaster Role = "master"
)

// InvitationStatus represents the state of a user's join request.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// User represents an operator of the system. A user may authenticate only if
// Active is true and InvitationStatus is accepted.
type User struct {
	ID               uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Name             string           `json:"name" gorm:"size:255;not null"`
	Email            string           `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string           `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role             Role             `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	InvitationStatus InvitationStatus `json:"invitation_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Active           bool             `json:"active" gorm:"default:false;index"`
	LastLogin        *time.Time       `json:"last_login,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanAuthenticate reports whether the user is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return u.Active && u.InvitationStatus == InvitationAccepted
}
