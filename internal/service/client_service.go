package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bizledger/internal/cache"
	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

const clientCacheTTL = 5 * time.Minute

// ClientService handles clients and the services contracted by them.
type ClientService interface {
	CreateClient(ctx context.Context, client *model.Client) error
	UpdateClient(ctx context.Context, client *model.Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error)
	ListClients(ctx context.Context) []model.Client
	SearchClients(ctx context.Context, name string) []model.Client
	DeleteClient(ctx context.Context, id uuid.UUID) error

	CreateService(ctx context.Context, service *model.Service) error
	UpdateService(ctx context.Context, service *model.Service) error
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListServices(ctx context.Context) []model.Service
	ListServicesByClient(ctx context.Context, clientID uuid.UUID) []model.Service
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRepository
	cache       *cache.Client
}

// NewClientService creates a new client service.
func NewClientService(clientRepo repository.ClientRepository, serviceRepo repository.ServiceRepository, cache *cache.Client) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
	}
}

func (s *clientService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("client:%s", id.String())
}

// CreateClient validates and stores a new client.
func (s *clientService) CreateClient(ctx context.Context, client *model.Client) error {
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// UpdateClient updates a client and invalidates its cache entry.
func (s *clientService) UpdateClient(ctx context.Context, client *model.Client) error {
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(client.ID))
	return nil
}

// GetClient retrieves a client by ID with read-through caching.
func (s *clientService) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Client
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	if payload, err := json.Marshal(client); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, clientCacheTTL)
	}
	return client, nil
}

// ListClients returns all clients by name. Read failures degrade to empty.
func (s *clientService) ListClients(ctx context.Context) []model.Client {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("client list degraded to empty result")
		return []model.Client{}
	}
	return clients
}

// SearchClients returns clients matching a name fragment. Read failures
// degrade to empty.
func (s *clientService) SearchClients(ctx context.Context, name string) []model.Client {
	clients, err := s.clientRepo.SearchByName(ctx, name)
	if err != nil {
		logrus.WithError(err).Warn("client search degraded to empty result")
		return []model.Client{}
	}
	return clients
}

// DeleteClient removes a client and cascades to its services, projects,
// payments and attachments.
func (s *clientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	if err := s.clientRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// CreateService validates and stores a new contracted service.
func (s *clientService) CreateService(ctx context.Context, service *model.Service) error {
	if service.ClientID == uuid.Nil {
		return errors.ErrMissingClient
	}
	if service.Price.IsNegative() {
		return errors.ErrInvalidAmount
	}
	if service.Status == "" {
		service.Status = model.ServiceStatusActive
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// UpdateService updates a contracted service.
func (s *clientService) UpdateService(ctx context.Context, service *model.Service) error {
	if service.Price.IsNegative() {
		return errors.ErrInvalidAmount
	}
	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// GetService retrieves a service by ID.
func (s *clientService) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return service, nil
}

// ListServices returns all services by recency. Read failures degrade to empty.
func (s *clientService) ListServices(ctx context.Context) []model.Service {
	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("service list degraded to empty result")
		return []model.Service{}
	}
	return services
}

// ListServicesByClient returns a client's services. Read failures degrade to
// empty.
func (s *clientService) ListServicesByClient(ctx context.Context, clientID uuid.UUID) []model.Service {
	services, err := s.serviceRepo.ListByClient(ctx, clientID)
	if err != nil {
		logrus.WithError(err).WithField("client_id", clientID).
			Warn("service list degraded to empty result")
		return []model.Service{}
	}
	return services
}

// DeleteService removes a service and its attachments.
func (s *clientService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
