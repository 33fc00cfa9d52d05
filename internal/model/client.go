package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a customer of the business.
type Client struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	City      string    `json:"city" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Services []Service `json:"services,omitempty" gorm:"foreignKey:ClientID"`
	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:ClientID"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:ClientID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
