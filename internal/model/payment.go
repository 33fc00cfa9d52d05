package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the stored status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Payment represents a payment owed by a client for a contracted service.
type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ClientID      uuid.UUID       `json:"client_id" gorm:"type:char(36);not null;index"`
	ServiceID     uuid.UUID       `json:"service_id" gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	DueDate       time.Time       `json:"due_date" gorm:"not null;index"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod string          `json:"payment_method,omitempty" gorm:"size:100"`
	Notes         string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	Client  Client  `json:"-" gorm:"foreignKey:ClientID"`
	Service Service `json:"-" gorm:"foreignKey:ServiceID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AuthoritativeStatus returns the overdue-aware status of the payment. A
// pending payment whose due date has passed counts as overdue even before the
// reconciliation sweep has updated the stored status. Reporting and
// aggregation must use this, never the raw Status field.
func (p *Payment) AuthoritativeStatus(today time.Time) PaymentStatus {
	if p.Status == PaymentStatusPending && DateOnly(p.DueDate).Before(DateOnly(today)) {
		return PaymentStatusOverdue
	}
	return p.Status
}

// DateOnly truncates a time to its calendar date in UTC. Due-date comparisons
// ignore time of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
