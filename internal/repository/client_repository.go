package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizledger/internal/model"
)

// ClientRepository defines client persistence operations.
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	SearchByName(ctx context.Context, name string) ([]model.Client, error)
	// DeleteCascade removes a client and everything it owns (services,
	// projects, tasks, payments, attachments) in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client.
func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// Update updates an existing client.
func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// FindByID finds a client by ID.
func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns all clients ordered by name.
func (r *clientRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// SearchByName returns clients whose name contains the given fragment,
// ordered by name.
func (r *clientRepository) SearchByName(ctx context.Context, name string) ([]model.Client, error) {
	var clients []model.Client
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("name LIKE ?", "%"+name+"%").
			Order("name ASC").Find(&clients).Error
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// DeleteCascade deletes the client and its dependents inside a transaction so
// a failed delete leaves no orphans and no partial removal.
func (r *clientRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectIDs := tx.Model(&model.Project{}).Select("id").Where("client_id = ?", id)
		serviceIDs := tx.Model(&model.Service{}).Select("id").Where("client_id = ?", id)
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("project_id IN (?)", projectIDs)

		// Attachments of dependents first, then the dependents, then the client.
		if err := tx.Where("related_type = ? AND related_id IN (?)", model.RelatedTask, taskIDs).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_type = ? AND related_id IN (?)", model.RelatedProject, projectIDs).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_type = ? AND related_id IN (?)", model.RelatedService, serviceIDs).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_type = ? AND related_id = ?", model.RelatedClient, id).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.Service{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Client{}).Error
	})
}
