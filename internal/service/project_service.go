package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

// ProjectService handles projects and their tasks.
type ProjectService interface {
	CreateProject(ctx context.Context, project *model.Project) error
	UpdateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListProjects(ctx context.Context) []model.Project
	ListProjectsByClient(ctx context.Context, clientID uuid.UUID) []model.Project
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListTasksByProject(ctx context.Context, projectID uuid.UUID) []model.Task
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProject validates and stores a new project.
func (s *projectService) CreateProject(ctx context.Context, project *model.Project) error {
	if project.ClientID == uuid.Nil {
		return errors.ErrMissingClient
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusPlanning
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// UpdateProject updates an existing project.
func (s *projectService) UpdateProject(ctx context.Context, project *model.Project) error {
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects. Read failures degrade to empty.
func (s *projectService) ListProjects(ctx context.Context) []model.Project {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("project list degraded to empty result")
		return []model.Project{}
	}
	return projects
}

// ListProjectsByClient returns a client's projects. Read failures degrade to
// empty.
func (s *projectService) ListProjectsByClient(ctx context.Context, clientID uuid.UUID) []model.Project {
	projects, err := s.projectRepo.ListByClient(ctx, clientID)
	if err != nil {
		logrus.WithError(err).WithField("client_id", clientID).
			Warn("project list degraded to empty result")
		return []model.Project{}
	}
	return projects
}

// DeleteProject removes a project with its tasks and attachments.
func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	if err := s.projectRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// CreateTask validates and stores a new task.
func (s *projectService) CreateTask(ctx context.Context, task *model.Task) error {
	if task.ProjectID == uuid.Nil {
		return errors.ErrProjectNotFound
	}
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// UpdateTask updates an existing task.
func (s *projectService) UpdateTask(ctx context.Context, task *model.Task) error {
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *projectService) GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// ListTasksByProject returns a project's tasks. Read failures degrade to empty.
func (s *projectService) ListTasksByProject(ctx context.Context, projectID uuid.UUID) []model.Task {
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		logrus.WithError(err).WithField("project_id", projectID).
			Warn("task list degraded to empty result")
		return []model.Task{}
	}
	return tasks
}

// DeleteTask removes a task and its attachments.
func (s *projectService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
