package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bizledger/internal/model"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context) ([]model.Payment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Payment, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Payment, error)
	// MarkPaid conditionally flips a payment to paid. The update only matches
	// rows still in one of fromStatuses, so a concurrent writer cannot be
	// silently overwritten. Returns the number of rows updated.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentDate time.Time, fromStatuses []model.PaymentStatus) (int64, error)
	// PromoteOverdue flips every pending payment due strictly before the given
	// date to overdue in a single bulk conditional update. Returns the number
	// of rows promoted.
	PromoteOverdue(ctx context.Context, before time.Time) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update updates an existing payment record.
func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete removes a payment. Unconditional: paid payments may be deleted.
func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Payment{}).Error
}

// FindByID finds a payment by ID.
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns all payments ordered by recency (latest due first).
func (r *paymentRepository) List(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("due_date DESC, created_at DESC").Find(&payments).Error
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListByClient returns a client's payments ordered by recency.
func (r *paymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("client_id = ?", clientID).
			Order("due_date DESC, created_at DESC").Find(&payments).Error
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListByService returns a service's payments ordered by recency.
func (r *paymentRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := withReadRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("service_id = ?", serviceID).
			Order("due_date DESC, created_at DESC").Find(&payments).Error
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkPaid conditionally updates status and payment_date.
func (r *paymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentDate time.Time, fromStatuses []model.PaymentStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Updates(map[string]interface{}{
			"status":       model.PaymentStatusPaid,
			"payment_date": paymentDate,
		})
	return res.RowsAffected, res.Error
}

// PromoteOverdue runs the reconciliation sweep as one conditional update.
func (r *paymentRepository) PromoteOverdue(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ? AND due_date < ?", model.PaymentStatusPending, before).
		Update("status", model.PaymentStatusOverdue)
	return res.RowsAffected, res.Error
}
