package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizledger/internal/model"
)

// AttachmentRepository defines attachment persistence operations.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	ListByOwner(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID) ([]model.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Attachment{}).Error
}

func (r *attachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var attachment model.Attachment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	})
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) ListByOwner(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("related_type = ? AND related_id = ?", relatedType, relatedID).
			Order("created_at DESC").Find(&attachments).Error
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
