package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/model"
)

// upcomingWindowDays is the horizon of the upcoming-payments report.
const upcomingWindowDays = 30

// MonthlyBucket is one month of the revenue series.
type MonthlyBucket struct {
	Month    time.Month      `json:"month"`
	Received decimal.Decimal `json:"received"`
	Expected decimal.Decimal `json:"expected"`
}

// StatusCount is one bucket of the status-distribution report.
type StatusCount struct {
	Status model.PaymentStatus `json:"status"`
	Count  int                 `json:"count"`
}

// ReportService derives presentation series from the full payment set.
type ReportService interface {
	MonthlyRevenue(ctx context.Context, year int) []MonthlyBucket
	StatusDistribution(ctx context.Context) []StatusCount
	UpcomingPayments(ctx context.Context) []model.Payment
}

type reportService struct {
	payments PaymentService
	now      func() time.Time
}

// NewReportService creates a new report service over the payment service.
func NewReportService(payments PaymentService) ReportService {
	return &reportService{
		payments: payments,
		now:      time.Now,
	}
}

// MonthlyRevenue returns exactly twelve buckets for the given year, zero
// filled. Received amounts bucket by payment date, expected (non-paid)
// amounts by due date.
func (s *reportService) MonthlyRevenue(ctx context.Context, year int) []MonthlyBucket {
	return MonthlySeries(s.payments.List(ctx), year, s.now())
}

// StatusDistribution counts payments per authoritative status. Statuses with
// zero occurrences are omitted.
func (s *reportService) StatusDistribution(ctx context.Context) []StatusCount {
	return Distribution(s.payments.List(ctx), s.now())
}

// UpcomingPayments returns non-paid payments due within the next 30 days
// inclusive, ascending by due date.
func (s *reportService) UpcomingPayments(ctx context.Context) []model.Payment {
	return Upcoming(s.payments.List(ctx), s.now())
}

// MonthlySeries buckets the payment set into twelve months of the given year.
func MonthlySeries(payments []model.Payment, year int, today time.Time) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 12)
	for i := range buckets {
		buckets[i] = MonthlyBucket{
			Month:    time.Month(i + 1),
			Received: decimal.Zero,
			Expected: decimal.Zero,
		}
	}
	for _, p := range payments {
		if p.AuthoritativeStatus(today) == model.PaymentStatusPaid {
			if p.PaymentDate != nil && p.PaymentDate.Year() == year {
				m := int(p.PaymentDate.Month()) - 1
				buckets[m].Received = buckets[m].Received.Add(p.Amount)
			}
			continue
		}
		if p.DueDate.Year() == year {
			m := int(p.DueDate.Month()) - 1
			buckets[m].Expected = buckets[m].Expected.Add(p.Amount)
		}
	}
	return buckets
}

// Distribution counts payments per authoritative status, omitting empty
// buckets. Order is fixed: pending, paid, overdue.
func Distribution(payments []model.Payment, today time.Time) []StatusCount {
	counts := map[model.PaymentStatus]int{}
	for _, p := range payments {
		counts[p.AuthoritativeStatus(today)]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, status := range []model.PaymentStatus{
		model.PaymentStatusPending,
		model.PaymentStatusPaid,
		model.PaymentStatusOverdue,
	} {
		if counts[status] > 0 {
			out = append(out, StatusCount{Status: status, Count: counts[status]})
		}
	}
	return out
}

// Upcoming filters the payment set to non-paid payments with a due date in
// [today, today+30d] inclusive, sorted ascending by due date.
func Upcoming(payments []model.Payment, today time.Time) []model.Payment {
	start := model.DateOnly(today)
	end := start.AddDate(0, 0, upcomingWindowDays)

	out := make([]model.Payment, 0)
	for _, p := range payments {
		if p.AuthoritativeStatus(today) == model.PaymentStatusPaid {
			continue
		}
		due := model.DateOnly(p.DueDate)
		if due.Before(start) || due.After(end) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}
