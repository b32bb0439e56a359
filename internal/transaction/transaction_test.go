package transaction_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natog7/PersonalFinance/internal/money"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

func mustMoney(t *testing.T, amount string) money.Money {
	t.Helper()

	m, err := money.New(decimal.RequireFromString(amount), "USD")
	require.NoError(t, err)

	return m
}

func TestNew(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	categoryID := uuid.New()

	type testCase struct {
		name    string
		title   string
		amount  money.Money
		date    time.Time
		typ     transaction.Type
		wantErr error
	}

	tests := []testCase{
		{
			name:   "Success",
			title:  "  Groceries  ",
			amount: mustMoney(t, "42.50"),
			date:   yesterday,
			typ:    transaction.TypeExpense,
		},
		{
			name:    "EmptyTitle",
			title:   "   ",
			amount:  mustMoney(t, "1"),
			date:    yesterday,
			typ:     transaction.TypeExpense,
			wantErr: transaction.ErrEmptyTitle,
		},
		{
			name:    "FutureDate",
			title:   "Salary",
			amount:  mustMoney(t, "100"),
			date:    tomorrow,
			typ:     transaction.TypeIncome,
			wantErr: transaction.ErrFutureDate,
		},
		{
			name:    "MissingAmount",
			title:   "Salary",
			date:    yesterday,
			typ:     transaction.TypeIncome,
			wantErr: transaction.ErrMissingAmount,
		},
		{
			name:    "InvalidType",
			title:   "Salary",
			amount:  mustMoney(t, "100"),
			date:    yesterday,
			typ:     transaction.Type(9),
			wantErr: transaction.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := transaction.New(tt.title, tt.amount, tt.date, tt.typ, categoryID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tx.ID)
			assert.Equal(t, "Groceries", tx.Title)
			assert.Equal(t, categoryID, tx.CategoryID)
			assert.False(t, tx.IsRecurrent())
			assert.Zero(t, tx.Date.Hour())
			assert.False(t, tx.CreatedAt.IsZero())
		})
	}
}

func TestNewTitleLengthLimit(t *testing.T) {
	long := make([]rune, 257)
	for i := range long {
		long[i] = 'a'
	}

	_, err := transaction.New(string(long), mustMoney(t, "1"),
		time.Now().UTC(), transaction.TypeExpense, uuid.New())
	assert.ErrorIs(t, err, transaction.ErrTitleTooLong)

	// The limit counts characters, not bytes: 256 multi-byte runes fit.
	t.Run("MultiByteTitleWithinLimit", func(t *testing.T) {
		tx, err := transaction.New(strings.Repeat("é", 256), mustMoney(t, "1"),
			time.Now().UTC(), transaction.TypeExpense, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", 256), tx.Title)
	})

	t.Run("MultiByteTitleOverLimit", func(t *testing.T) {
		_, err := transaction.New(strings.Repeat("é", 257), mustMoney(t, "1"),
			time.Now().UTC(), transaction.TypeExpense, uuid.New())
		assert.ErrorIs(t, err, transaction.ErrTitleTooLong)
	})
}

func TestNewRecurrent(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	categoryID := uuid.New()
	amount := mustMoney(t, "15")

	t.Run("Success", func(t *testing.T) {
		tx, err := transaction.NewRecurrent("Rent", amount, date,
			transaction.TypeExpense, categoryID, transaction.RecurMonthly, date.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.True(t, tx.IsRecurrent())
		assert.Equal(t, transaction.RecurMonthly, tx.Recurrence.Period)
	})

	t.Run("EndDateNotAfterDate", func(t *testing.T) {
		_, err := transaction.NewRecurrent("Rent", amount, date,
			transaction.TypeExpense, categoryID, transaction.RecurMonthly, date)
		assert.ErrorIs(t, err, transaction.ErrEndBeforeDate)
	})

	t.Run("InvalidPeriod", func(t *testing.T) {
		_, err := transaction.NewRecurrent("Rent", amount, date,
			transaction.TypeExpense, categoryID, transaction.Recurrence(0), date.AddDate(1, 0, 0))
		assert.ErrorIs(t, err, transaction.ErrInvalidRecurrence)
	})
}

func TestUpdate(t *testing.T) {
	tx, err := transaction.New("Coffee", mustMoney(t, "4"),
		time.Now().UTC(), transaction.TypeExpense, uuid.New())
	require.NoError(t, err)
	require.Nil(t, tx.UpdatedAt)

	newCategory := uuid.New()
	require.NoError(t, tx.Update(mustMoney(t, "5.50"), newCategory))

	assert.True(t, tx.Amount.Equal(mustMoney(t, "5.50")))
	assert.Equal(t, newCategory, tx.CategoryID)
	require.NotNil(t, tx.UpdatedAt)

	assert.ErrorIs(t, tx.Update(money.Money{}, newCategory), transaction.ErrMissingAmount)
}

func TestComputeIdempotencyHash(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	a, err := transaction.New("Market", mustMoney(t, "12.30"), date, transaction.TypeExpense, uuid.New())
	require.NoError(t, err)

	b, err := transaction.New("Market", mustMoney(t, "12.3"), date, transaction.TypeExpense, uuid.New())
	require.NoError(t, err)

	c, err := transaction.New("Market", mustMoney(t, "12.31"), date, transaction.TypeExpense, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, a.ComputeIdempotencyHash(), b.ComputeIdempotencyHash())
	assert.NotEqual(t, a.ComputeIdempotencyHash(), c.ComputeIdempotencyHash())
}

func TestNewDatePeriod(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("OpenEnd", func(t *testing.T) {
		p, err := transaction.NewDatePeriod(jan1, nil)
		require.NoError(t, err)

		_, ok := p.End()
		assert.False(t, ok)
		assert.True(t, p.Contains(jan1))
		assert.False(t, p.Contains(jan1.AddDate(0, 0, 1)))
	})

	t.Run("Range", func(t *testing.T) {
		p, err := transaction.NewDatePeriod(jan1, &jan31)
		require.NoError(t, err)

		assert.True(t, p.Contains(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
		assert.True(t, p.Contains(jan31))
		assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("StartAfterEnd", func(t *testing.T) {
		_, err := transaction.NewDatePeriod(jan31, &jan1)
		assert.ErrorIs(t, err, transaction.ErrInvalidPeriod)
	})

	t.Run("SameDay", func(t *testing.T) {
		end := jan1.Add(2 * time.Hour)

		_, err := transaction.NewDatePeriod(jan1, &end)
		assert.NoError(t, err)
	})
}
