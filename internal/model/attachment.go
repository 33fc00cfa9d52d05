package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelatedType identifies which entity an attachment belongs to. Attachments
// associate by (type, id) pair rather than a foreign key because they can
// point at four different owning entities.
type RelatedType string

const (
	RelatedClient  RelatedType = "client"
	RelatedProject RelatedType = "project"
	RelatedService RelatedType = "service"
	RelatedTask    RelatedType = "task"
)

// ValidRelatedType reports whether t names an attachable entity.
func ValidRelatedType(t RelatedType) bool {
	switch t {
	case RelatedClient, RelatedProject, RelatedService, RelatedTask:
		return true
	}
	return false
}

// Attachment represents a file uploaded against a client, project, service or
// task.
type Attachment struct {
	ID          uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	RelatedType RelatedType `json:"related_type" gorm:"type:varchar(20);not null;index:idx_attachment_owner"`
	RelatedID   uuid.UUID   `json:"related_id" gorm:"type:char(36);not null;index:idx_attachment_owner"`
	FileName    string      `json:"file_name" gorm:"size:255;not null"`
	FilePath    string      `json:"file_path" gorm:"size:500;not null"`
	ContentType string      `json:"content_type" gorm:"size:100"`
	Size        int64       `json:"size"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
