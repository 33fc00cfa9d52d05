package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/repository"
	"bizledger/internal/storage"
)

// AttachmentService handles file attachments on clients, projects, services
// and tasks.
type AttachmentService interface {
	Upload(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID, fileHeader *multipart.FileHeader) (*model.Attachment, string, error)
	ListByOwner(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID) []model.Attachment
	Delete(ctx context.Context, id uuid.UUID) error
	PublicURL(attachment *model.Attachment) string
}

type attachmentService struct {
	repo  repository.AttachmentRepository
	store *storage.LocalStore
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(repo repository.AttachmentRepository, store *storage.LocalStore) AttachmentService {
	return &attachmentService{repo: repo, store: store}
}

// Upload saves the file to disk and records the attachment. Returns the
// record and its public URL.
func (s *attachmentService) Upload(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID, fileHeader *multipart.FileHeader) (*model.Attachment, string, error) {
	if !model.ValidRelatedType(relatedType) {
		return nil, "", fmt.Errorf("invalid related type %q", relatedType)
	}
	if relatedID == uuid.Nil {
		return nil, "", fmt.Errorf("related id is required")
	}

	saved, err := s.store.Save(fileHeader)
	if err != nil {
		return nil, "", err
	}

	attachment := &model.Attachment{
		RelatedType: relatedType,
		RelatedID:   relatedID,
		FileName:    fileHeader.Filename,
		FilePath:    saved.Path,
		ContentType: saved.ContentType,
		Size:        saved.Size,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		// The row is the source of truth; orphaned files are removed so a
		// failed create leaves nothing behind.
		_ = s.store.Remove(saved.Path)
		return nil, "", fmt.Errorf("create attachment: %w", err)
	}

	return attachment, s.store.PublicURL(saved.Path), nil
}

// ListByOwner returns the attachments of one entity. Read failures degrade to
// empty.
func (s *attachmentService) ListByOwner(ctx context.Context, relatedType model.RelatedType, relatedID uuid.UUID) []model.Attachment {
	attachments, err := s.repo.ListByOwner(ctx, relatedType, relatedID)
	if err != nil {
		logrus.WithError(err).Warn("attachment list degraded to empty result")
		return []model.Attachment{}
	}
	return attachments
}

// Delete removes the attachment record and, best effort, its file.
func (s *attachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrAttachmentNotFound
		}
		return fmt.Errorf("find attachment: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if err := s.store.Remove(attachment.FilePath); err != nil {
		logrus.WithError(err).WithField("path", attachment.FilePath).
			Warn("attachment file left behind after delete")
	}
	return nil
}

// PublicURL returns the URL an attachment's file is served under.
func (s *attachmentService) PublicURL(attachment *model.Attachment) string {
	return s.store.PublicURL(attachment.FilePath)
}
