package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceStatus represents the status of a contracted service.
type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
	ServiceStatusPending  ServiceStatus = "pending"
)

// Service represents a recurring service contracted by a client. It is the
// basis for recurring payments.
type Service struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ClientID    uuid.UUID       `json:"client_id" gorm:"type:char(36);not null;index"`
	ServiceType string          `json:"service_type" gorm:"size:255;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	AccessLink  string          `json:"access_link" gorm:"size:500"`
	Username    string          `json:"username" gorm:"size:255"`
	Password    string          `json:"-" gorm:"size:255"` // Never expose in JSON
	Status      ServiceStatus   `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Client Client `json:"-" gorm:"foreignKey:ClientID"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
