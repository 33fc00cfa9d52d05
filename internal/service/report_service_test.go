package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bizledger/internal/model"
)

func TestMonthlySeries(t *testing.T) {
	today := fixedDate(2025, time.July, 1)

	t.Run("always twelve zero-filled buckets", func(t *testing.T) {
		buckets := MonthlySeries(nil, 2025, today)

		assert.Len(t, buckets, 12)
		for i, b := range buckets {
			assert.Equal(t, time.Month(i+1), b.Month)
			assert.True(t, b.Received.IsZero())
			assert.True(t, b.Expected.IsZero())
		}
	})

	t.Run("received buckets by payment date, expected by due date", func(t *testing.T) {
		marchPaid := fixedDate(2025, time.March, 12)
		payments := []model.Payment{
			{
				Status:      model.PaymentStatusPaid,
				Amount:      decimal.NewFromInt(100),
				DueDate:     fixedDate(2025, time.February, 28),
				PaymentDate: &marchPaid,
			},
			{
				Status:  model.PaymentStatusPending,
				Amount:  decimal.NewFromInt(250),
				DueDate: fixedDate(2025, time.August, 5),
			},
			{
				Status:  model.PaymentStatusOverdue,
				Amount:  decimal.NewFromInt(75),
				DueDate: fixedDate(2025, time.March, 1),
			},
		}

		buckets := MonthlySeries(payments, 2025, today)

		// Paid in March even though it was due in February.
		assert.True(t, buckets[2].Received.Equal(decimal.NewFromInt(100)))
		assert.True(t, buckets[1].Received.IsZero())
		assert.True(t, buckets[7].Expected.Equal(decimal.NewFromInt(250)))
		assert.True(t, buckets[2].Expected.Equal(decimal.NewFromInt(75)))
	})

	t.Run("other years are excluded", func(t *testing.T) {
		lastYear := fixedDate(2024, time.December, 20)
		payments := []model.Payment{
			{
				Status:      model.PaymentStatusPaid,
				Amount:      decimal.NewFromInt(500),
				DueDate:     lastYear,
				PaymentDate: &lastYear,
			},
			{
				Status:  model.PaymentStatusPending,
				Amount:  decimal.NewFromInt(90),
				DueDate: fixedDate(2026, time.January, 10),
			},
		}

		buckets := MonthlySeries(payments, 2025, today)

		for _, b := range buckets {
			assert.True(t, b.Received.IsZero())
			assert.True(t, b.Expected.IsZero())
		}
	})
}

func TestDistribution(t *testing.T) {
	today := fixedDate(2025, time.March, 15)

	t.Run("zero-count statuses are omitted", func(t *testing.T) {
		payments := []model.Payment{
			{Status: model.PaymentStatusPaid, Amount: decimal.NewFromInt(10), DueDate: today},
			{Status: model.PaymentStatusPaid, Amount: decimal.NewFromInt(20), DueDate: today},
		}

		out := Distribution(payments, today)

		assert.Equal(t, []StatusCount{{Status: model.PaymentStatusPaid, Count: 2}}, out)
	})

	t.Run("empty set yields empty distribution", func(t *testing.T) {
		assert.Empty(t, Distribution(nil, today))
	})

	t.Run("soft-overdue pending rows count as overdue", func(t *testing.T) {
		payments := []model.Payment{
			{Status: model.PaymentStatusPending, DueDate: fixedDate(2025, time.April, 1)},
			{Status: model.PaymentStatusPending, DueDate: fixedDate(2025, time.March, 1)},
			{Status: model.PaymentStatusOverdue, DueDate: fixedDate(2025, time.February, 1)},
		}

		out := Distribution(payments, today)

		assert.Equal(t, []StatusCount{
			{Status: model.PaymentStatusPending, Count: 1},
			{Status: model.PaymentStatusOverdue, Count: 2},
		}, out)
	})
}

func TestUpcoming(t *testing.T) {
	today := fixedDate(2025, time.March, 15)

	payments := []model.Payment{
		{Status: model.PaymentStatusPending, Notes: "due at end of window", DueDate: fixedDate(2025, time.April, 14)},
		{Status: model.PaymentStatusPending, Notes: "due today", DueDate: fixedDate(2025, time.March, 15)},
		{Status: model.PaymentStatusPaid, Notes: "already paid", DueDate: fixedDate(2025, time.March, 20)},
		{Status: model.PaymentStatusPending, Notes: "past due", DueDate: fixedDate(2025, time.March, 1)},
		{Status: model.PaymentStatusPending, Notes: "beyond the window", DueDate: fixedDate(2025, time.April, 15)},
		{Status: model.PaymentStatusOverdue, Notes: "stored overdue, past due", DueDate: fixedDate(2025, time.February, 1)},
		{Status: model.PaymentStatusPending, Notes: "next week", DueDate: fixedDate(2025, time.March, 22)},
	}

	out := Upcoming(payments, today)

	notes := make([]string, 0, len(out))
	for _, p := range out {
		notes = append(notes, p.Notes)
	}
	assert.Equal(t, []string{"due today", "next week", "due at end of window"}, notes)
}

func TestUpcoming_EmptySet(t *testing.T) {
	out := Upcoming(nil, fixedDate(2025, time.March, 15))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
