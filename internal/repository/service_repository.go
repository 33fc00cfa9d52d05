package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizledger/internal/model"
)

// ServiceRepository defines contracted-service persistence operations.
type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	Update(ctx context.Context, service *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// Create creates a new service.
func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// Update updates an existing service.
func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// Delete removes a service and its attachments.
func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("related_type = ? AND related_id = ?", model.RelatedService, id).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Service{}).Error
	})
}

// FindByID finds a service by ID.
func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var service model.Service
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns all services ordered by recency.
func (r *serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("created_at DESC").Find(&services).Error
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}

// ListByClient returns a client's services ordered by recency.
func (r *serviceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error) {
	var services []model.Service
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("client_id = ?", clientID).
			Order("created_at DESC").Find(&services).Error
	})
	if err != nil {
		return nil, err
	}
	return services, nil
}
