package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
)

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *model.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *MockClientRepository) SearchByName(ctx context.Context, name string) ([]model.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *MockClientRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockServiceRepository is a mock implementation of ServiceRepository.
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *model.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Update(ctx context.Context, service *model.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func (m *MockServiceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func TestClientService_DeleteClient(t *testing.T) {
	t.Run("delete cascades through the repository", func(t *testing.T) {
		clientID := uuid.New()
		mockClients := new(MockClientRepository)
		mockClients.On("FindByID", mock.Anything, clientID).Return(&model.Client{ID: clientID}, nil)
		mockClients.On("DeleteCascade", mock.Anything, clientID).Return(nil)

		service := NewClientService(mockClients, new(MockServiceRepository), nil)
		err := service.DeleteClient(context.Background(), clientID)

		assert.NoError(t, err)
		mockClients.AssertExpectations(t)
	})

	t.Run("unknown client reports not found without deleting", func(t *testing.T) {
		clientID := uuid.New()
		mockClients := new(MockClientRepository)
		mockClients.On("FindByID", mock.Anything, clientID).Return(nil, gorm.ErrRecordNotFound)

		service := NewClientService(mockClients, new(MockServiceRepository), nil)
		err := service.DeleteClient(context.Background(), clientID)

		assert.ErrorIs(t, err, errors.ErrClientNotFound)
		mockClients.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
	})
}

func TestClientService_CreateService(t *testing.T) {
	tests := []struct {
		name          string
		service       model.Service
		expectedError error
	}{
		{
			name: "missing client",
			service: model.Service{
				ServiceType: "Hosting",
				Price:       decimal.NewFromInt(100),
			},
			expectedError: errors.ErrMissingClient,
		},
		{
			name: "negative price",
			service: model.Service{
				ClientID:    uuid.New(),
				ServiceType: "Hosting",
				Price:       decimal.NewFromInt(-1),
			},
			expectedError: errors.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServices := new(MockServiceRepository)
			service := NewClientService(new(MockClientRepository), mockServices, nil)

			err := service.CreateService(context.Background(), &tt.service)

			assert.ErrorIs(t, err, tt.expectedError)
			mockServices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestClientService_CreateService_DefaultsToActive(t *testing.T) {
	mockServices := new(MockServiceRepository)
	mockServices.On("Create", mock.Anything, mock.AnythingOfType("*model.Service")).Return(nil)

	service := NewClientService(new(MockClientRepository), mockServices, nil)
	svc := model.Service{
		ClientID:    uuid.New(),
		ServiceType: "Hosting",
		Price:       decimal.NewFromInt(100),
	}

	err := service.CreateService(context.Background(), &svc)

	assert.NoError(t, err)
	assert.Equal(t, model.ServiceStatusActive, svc.Status)
	mockServices.AssertExpectations(t)
}
