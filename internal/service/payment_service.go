package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bizledger/internal/errors"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

// FinancialSummary aggregates payment amounts by authoritative status.
// Received covers paid payments, Expected pending ones, Overdue overdue ones
// (including soft-overdue pending rows the sweep has not caught up with yet).
type FinancialSummary struct {
	Received decimal.Decimal `json:"received"`
	Expected decimal.Decimal `json:"expected"`
	Overdue  decimal.Decimal `json:"overdue"`
	Total    decimal.Decimal `json:"total"`
}

// PaymentService owns the payment lifecycle: creation validation, the
// pending/paid/overdue transitions, the reconciliation sweep and the
// financial summary.
type PaymentService interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, id uuid.UUID, update PaymentUpdate) (*model.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context) []model.Payment
	ListByClient(ctx context.Context, clientID uuid.UUID) []model.Payment
	ListByService(ctx context.Context, serviceID uuid.UUID) []model.Payment
	MarkAsPaid(ctx context.Context, id uuid.UUID, paymentDate *time.Time) (*model.Payment, error)
	PromoteOverduePayments(ctx context.Context) (int64, error)
	Summary(ctx context.Context) FinancialSummary
}

// PaymentUpdate carries the editable fields of a payment. Status and payment
// date are deliberately absent: only MarkAsPaid and the sweep change status,
// so a paid payment can never silently revert to pending.
type PaymentUpdate struct {
	Amount        *decimal.Decimal
	DueDate       *time.Time
	PaymentMethod *string
	Notes         *string
}

type paymentService struct {
	repo repository.PaymentRepository
	now  func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(repo repository.PaymentRepository) PaymentService {
	return &paymentService{
		repo: repo,
		now:  time.Now,
	}
}

// Create validates and stores a new payment. Validation runs before any store
// call: a rejected payment writes nothing.
func (s *paymentService) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ClientID == uuid.Nil {
		return errors.ErrMissingClient
	}
	if payment.ServiceID == uuid.Nil {
		return errors.ErrMissingService
	}
	if payment.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	if payment.DueDate.IsZero() {
		return errors.ErrMissingDueDate
	}
	if payment.Status == "" {
		payment.Status = model.PaymentStatusPending
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update applies the editable fields to an existing payment.
func (s *paymentService) Update(ctx context.Context, id uuid.UUID, update PaymentUpdate) (*model.Payment, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Amount != nil {
		if update.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, errors.ErrInvalidAmount
		}
		payment.Amount = *update.Amount
	}
	if update.DueDate != nil {
		if update.DueDate.IsZero() {
			return nil, errors.ErrMissingDueDate
		}
		payment.DueDate = *update.DueDate
	}
	if update.PaymentMethod != nil {
		payment.PaymentMethod = *update.PaymentMethod
	}
	if update.Notes != nil {
		payment.Notes = *update.Notes
	}
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

// Delete removes a payment unconditionally.
func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// Get returns a payment by ID.
func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return payment, nil
}

// List returns all payments. Read failures degrade to an empty result.
func (s *paymentService) List(ctx context.Context) []model.Payment {
	payments, err := s.repo.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("payment list degraded to empty result")
		return []model.Payment{}
	}
	return payments
}

// ListByClient returns a client's payments. Read failures degrade to empty.
func (s *paymentService) ListByClient(ctx context.Context, clientID uuid.UUID) []model.Payment {
	payments, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		logrus.WithError(err).WithField("client_id", clientID).
			Warn("payment list degraded to empty result")
		return []model.Payment{}
	}
	return payments
}

// ListByService returns a service's payments. Read failures degrade to empty.
func (s *paymentService) ListByService(ctx context.Context, serviceID uuid.UUID) []model.Payment {
	payments, err := s.repo.ListByService(ctx, serviceID)
	if err != nil {
		logrus.WithError(err).WithField("service_id", serviceID).
			Warn("payment list degraded to empty result")
		return []model.Payment{}
	}
	return payments
}

// MarkAsPaid transitions a pending or overdue payment to paid, setting the
// payment date to the given date or today. The underlying update carries the
// allowed prior statuses as a precondition, so it cannot race the sweep or a
// concurrent MarkAsPaid.
func (s *paymentService) MarkAsPaid(ctx context.Context, id uuid.UUID, paymentDate *time.Time) (*model.Payment, error) {
	date := model.DateOnly(s.now())
	if paymentDate != nil {
		date = model.DateOnly(*paymentDate)
	}

	from := []model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusOverdue}
	rows, err := s.repo.MarkPaid(ctx, id, date, from)
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}
	if rows == 0 {
		payment, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if payment.Status == model.PaymentStatusPaid {
			return nil, errors.ErrAlreadyPaid
		}
		return nil, errors.ErrPaymentConflict
	}

	return s.Get(ctx, id)
}

// PromoteOverduePayments runs the reconciliation sweep: every pending payment
// whose due date is strictly before today becomes overdue. One bulk
// conditional update, safe to run concurrently and repeatedly.
func (s *paymentService) PromoteOverduePayments(ctx context.Context) (int64, error) {
	today := model.DateOnly(s.now())
	promoted, err := s.repo.PromoteOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("promote overdue payments: %w", err)
	}
	if promoted > 0 {
		logrus.WithField("promoted", promoted).Info("reconciliation sweep promoted payments to overdue")
	}
	return promoted, nil
}

// Summary recomputes the financial summary from the full payment set on every
// call. Nothing is cached or incrementally maintained, so the summary always
// agrees with the detail listing.
func (s *paymentService) Summary(ctx context.Context) FinancialSummary {
	return Summarize(s.List(ctx), s.now())
}

// Summarize buckets payment amounts by authoritative status.
func Summarize(payments []model.Payment, today time.Time) FinancialSummary {
	summary := FinancialSummary{
		Received: decimal.Zero,
		Expected: decimal.Zero,
		Overdue:  decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, p := range payments {
		switch p.AuthoritativeStatus(today) {
		case model.PaymentStatusPaid:
			summary.Received = summary.Received.Add(p.Amount)
		case model.PaymentStatusPending:
			summary.Expected = summary.Expected.Add(p.Amount)
		case model.PaymentStatusOverdue:
			summary.Overdue = summary.Overdue.Add(p.Amount)
		}
	}
	summary.Total = summary.Received.Add(summary.Expected).Add(summary.Overdue)
	return summary
}
