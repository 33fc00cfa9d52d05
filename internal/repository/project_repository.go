package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizledger/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error)
	// DeleteCascade removes a project with its tasks and attachments.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// FindByID finds a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns all projects ordered by recency.
func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByClient returns a client's projects ordered by recency.
func (r *projectRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("client_id = ?", clientID).
			Order("created_at DESC").Find(&projects).Error
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteCascade deletes the project, its tasks and their attachments in a
// transaction.
func (r *projectRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("related_type = ? AND related_id IN (?)", model.RelatedTask, taskIDs).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_type = ? AND related_id = ?", model.RelatedProject, id).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Project{}).Error
	})
}

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Update updates an existing task.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task and its attachments.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("related_type = ? AND related_id = ?", model.RelatedTask, id).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Task{}).Error
	})
}

// FindByID finds a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject returns a project's tasks ordered by creation.
func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("project_id = ?", projectID).
			Order("created_at ASC").Find(&tasks).Error
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
