package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
)

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]model.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Payment, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentDate time.Time, fromStatuses []model.PaymentStatus) (int64, error) {
	args := m.Called(ctx, id, paymentDate, fromStatuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) PromoteOverdue(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func fixedDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newPaymentServiceAt(repo *MockPaymentRepository, today time.Time) *paymentService {
	return &paymentService{
		repo: repo,
		now:  func() time.Time { return today },
	}
}

func TestPayment_AuthoritativeStatus(t *testing.T) {
	today := fixedDate(2025, time.March, 15)

	tests := []struct {
		name     string
		status   model.PaymentStatus
		dueDate  time.Time
		expected model.PaymentStatus
	}{
		{
			name:     "pending due in the future stays pending",
			status:   model.PaymentStatusPending,
			dueDate:  fixedDate(2025, time.March, 20),
			expected: model.PaymentStatusPending,
		},
		{
			name:     "pending due today stays pending",
			status:   model.PaymentStatusPending,
			dueDate:  fixedDate(2025, time.March, 15),
			expected: model.PaymentStatusPending,
		},
		{
			name:     "pending due yesterday counts as overdue",
			status:   model.PaymentStatusPending,
			dueDate:  fixedDate(2025, time.March, 14),
			expected: model.PaymentStatusOverdue,
		},
		{
			name:     "pending due late yesterday counts as overdue despite time of day",
			status:   model.PaymentStatusPending,
			dueDate:  time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC),
			expected: model.PaymentStatusOverdue,
		},
		{
			name:     "paid payment is never overdue",
			status:   model.PaymentStatusPaid,
			dueDate:  fixedDate(2024, time.January, 1),
			expected: model.PaymentStatusPaid,
		},
		{
			name:     "stored overdue stays overdue",
			status:   model.PaymentStatusOverdue,
			dueDate:  fixedDate(2025, time.January, 1),
			expected: model.PaymentStatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Payment{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.expected, p.AuthoritativeStatus(today))
		})
	}
}

func TestPaymentService_Create_Validation(t *testing.T) {
	due := fixedDate(2025, time.June, 1)

	tests := []struct {
		name          string
		payment       model.Payment
		expectedError error
	}{
		{
			name: "missing client",
			payment: model.Payment{
				ServiceID: uuid.New(),
				Amount:    decimal.NewFromInt(100),
				DueDate:   due,
			},
			expectedError: errors.ErrMissingClient,
		},
		{
			name: "missing service",
			payment: model.Payment{
				ClientID: uuid.New(),
				Amount:   decimal.NewFromInt(100),
				DueDate:  due,
			},
			expectedError: errors.ErrMissingService,
		},
		{
			name: "zero amount",
			payment: model.Payment{
				ClientID:  uuid.New(),
				ServiceID: uuid.New(),
				Amount:    decimal.Zero,
				DueDate:   due,
			},
			expectedError: errors.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			payment: model.Payment{
				ClientID:  uuid.New(),
				ServiceID: uuid.New(),
				Amount:    decimal.NewFromInt(-5),
				DueDate:   due,
			},
			expectedError: errors.ErrInvalidAmount,
		},
		{
			name: "missing due date",
			payment: model.Payment{
				ClientID:  uuid.New(),
				ServiceID: uuid.New(),
				Amount:    decimal.NewFromInt(100),
			},
			expectedError: errors.ErrMissingDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPaymentRepository)
			service := NewPaymentService(mockRepo)

			err := service.Create(context.Background(), &tt.payment)

			assert.ErrorIs(t, err, tt.expectedError)
			// A rejected payment must not touch the store.
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_Create_DefaultsToPending(t *testing.T) {
	mockRepo := new(MockPaymentRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)

	service := NewPaymentService(mockRepo)
	payment := model.Payment{
		ClientID:  uuid.New(),
		ServiceID: uuid.New(),
		Amount:    decimal.NewFromInt(100),
		DueDate:   fixedDate(2025, time.June, 1),
	}

	err := service.Create(context.Background(), &payment)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	mockRepo.AssertExpectations(t)
}

func TestPaymentService_MarkAsPaid(t *testing.T) {
	today := fixedDate(2025, time.March, 15)
	paymentID := uuid.New()

	t.Run("pending payment becomes paid dated today", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		paid := today
		mockRepo.On("MarkPaid", mock.Anything, paymentID, today,
			[]model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusOverdue}).
			Return(int64(1), nil)
		mockRepo.On("FindByID", mock.Anything, paymentID).Return(&model.Payment{
			ID:          paymentID,
			Status:      model.PaymentStatusPaid,
			PaymentDate: &paid,
		}, nil)

		service := newPaymentServiceAt(mockRepo, today)
		payment, err := service.MarkAsPaid(context.Background(), paymentID, nil)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, payment.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("explicit payment date is truncated to its calendar day", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		given := time.Date(2025, time.March, 10, 16, 30, 0, 0, time.UTC)
		mockRepo.On("MarkPaid", mock.Anything, paymentID, fixedDate(2025, time.March, 10),
			mock.Anything).Return(int64(1), nil)
		mockRepo.On("FindByID", mock.Anything, paymentID).Return(&model.Payment{
			ID:     paymentID,
			Status: model.PaymentStatusPaid,
		}, nil)

		service := newPaymentServiceAt(mockRepo, today)
		_, err := service.MarkAsPaid(context.Background(), paymentID, &given)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("already paid payment is rejected", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockRepo.On("MarkPaid", mock.Anything, paymentID, mock.Anything, mock.Anything).
			Return(int64(0), nil)
		mockRepo.On("FindByID", mock.Anything, paymentID).Return(&model.Payment{
			ID:     paymentID,
			Status: model.PaymentStatusPaid,
		}, nil)

		service := newPaymentServiceAt(mockRepo, today)
		payment, err := service.MarkAsPaid(context.Background(), paymentID, nil)

		assert.ErrorIs(t, err, errors.ErrAlreadyPaid)
		assert.Nil(t, payment)
	})

	t.Run("missing payment is reported as not found", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockRepo.On("MarkPaid", mock.Anything, paymentID, mock.Anything, mock.Anything).
			Return(int64(0), nil)
		mockRepo.On("FindByID", mock.Anything, paymentID).Return(nil, gorm.ErrRecordNotFound)

		service := newPaymentServiceAt(mockRepo, today)
		_, err := service.MarkAsPaid(context.Background(), paymentID, nil)

		assert.ErrorIs(t, err, errors.ErrPaymentNotFound)
	})
}

func TestPaymentService_PromoteOverduePayments(t *testing.T) {
	today := fixedDate(2025, time.March, 15)

	mockRepo := new(MockPaymentRepository)
	mockRepo.On("PromoteOverdue", mock.Anything, today).Return(int64(3), nil)

	service := newPaymentServiceAt(mockRepo, today)
	promoted, err := service.PromoteOverduePayments(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), promoted)
	mockRepo.AssertExpectations(t)
}

func TestSummarize(t *testing.T) {
	today := fixedDate(2025, time.March, 15)

	t.Run("empty set yields all zeros", func(t *testing.T) {
		summary := Summarize(nil, today)
		assert.True(t, summary.Received.IsZero())
		assert.True(t, summary.Expected.IsZero())
		assert.True(t, summary.Overdue.IsZero())
		assert.True(t, summary.Total.IsZero())
	})

	t.Run("buckets follow the authoritative status", func(t *testing.T) {
		payments := []model.Payment{
			{Status: model.PaymentStatusPaid, Amount: decimal.NewFromInt(100), DueDate: fixedDate(2025, time.January, 1)},
			{Status: model.PaymentStatusPending, Amount: decimal.NewFromInt(200), DueDate: fixedDate(2025, time.April, 1)},
			// Pending but past due: counts as overdue, not expected.
			{Status: model.PaymentStatusPending, Amount: decimal.NewFromInt(50), DueDate: fixedDate(2025, time.March, 1)},
			{Status: model.PaymentStatusOverdue, Amount: decimal.NewFromInt(25), DueDate: fixedDate(2025, time.February, 1)},
		}

		summary := Summarize(payments, today)

		assert.True(t, summary.Received.Equal(decimal.NewFromInt(100)))
		assert.True(t, summary.Expected.Equal(decimal.NewFromInt(200)))
		assert.True(t, summary.Overdue.Equal(decimal.NewFromInt(75)))
		assert.True(t, summary.Total.Equal(decimal.NewFromInt(375)))
	})

	t.Run("total always equals the sum of the buckets", func(t *testing.T) {
		payments := []model.Payment{
			{Status: model.PaymentStatusPaid, Amount: decimal.RequireFromString("10.55"), DueDate: today},
			{Status: model.PaymentStatusPending, Amount: decimal.RequireFromString("0.45"), DueDate: today},
		}

		summary := Summarize(payments, today)

		assert.True(t, summary.Total.Equal(summary.Received.Add(summary.Expected).Add(summary.Overdue)))
	})
}

func TestPaymentService_Summary_RecomputedPerCall(t *testing.T) {
	today := fixedDate(2025, time.March, 15)
	mockRepo := new(MockPaymentRepository)

	first := []model.Payment{
		{Status: model.PaymentStatusPending, Amount: decimal.NewFromInt(100), DueDate: fixedDate(2025, time.April, 1)},
	}
	second := append(first, model.Payment{
		Status: model.PaymentStatusPaid, Amount: decimal.NewFromInt(40), DueDate: today,
	})
	mockRepo.On("List", mock.Anything).Return(first, nil).Once()
	mockRepo.On("List", mock.Anything).Return(second, nil).Once()

	service := newPaymentServiceAt(mockRepo, today)

	summary := service.Summary(context.Background())
	assert.True(t, summary.Expected.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.Received.IsZero())

	summary = service.Summary(context.Background())
	assert.True(t, summary.Received.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(140)))
	mockRepo.AssertExpectations(t)
}

func TestPaymentService_List_DegradesToEmpty(t *testing.T) {
	mockRepo := new(MockPaymentRepository)
	mockRepo.On("List", mock.Anything).Return(nil, gorm.ErrInvalidDB)

	service := NewPaymentService(mockRepo)
	payments := service.List(context.Background())

	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}

func TestPaymentService_Update_CannotChangeStatus(t *testing.T) {
	paymentID := uuid.New()
	paid := fixedDate(2025, time.February, 1)

	mockRepo := new(MockPaymentRepository)
	mockRepo.On("FindByID", mock.Anything, paymentID).Return(&model.Payment{
		ID:          paymentID,
		ClientID:    uuid.New(),
		ServiceID:   uuid.New(),
		Amount:      decimal.NewFromInt(100),
		DueDate:     fixedDate(2025, time.January, 31),
		PaymentDate: &paid,
		Status:      model.PaymentStatusPaid,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)

	service := NewPaymentService(mockRepo)
	notes := "settled by bank transfer"
	payment, err := service.Update(context.Background(), paymentID, PaymentUpdate{Notes: &notes})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, payment.Status)
	assert.NotNil(t, payment.PaymentDate)
	assert.Equal(t, notes, payment.Notes)
	mockRepo.AssertExpectations(t)
}
