package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidMonthCount = errors.New("month count must be greater than zero")

// ProjectionParams selects the window to project: Months consecutive
// calendar months starting at the month containing Start, optionally scoped
// to one category.
type ProjectionParams struct {
	CategoryID *uuid.UUID
	Start      time.Time
	Months     int
}

// MonthlyBalance is the income/expense summary for one calendar month.
// Amounts assume a single-currency dataset.
type MonthlyBalance struct {
	Year     int
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// Project computes per-month balances for the requested window. Each month
// is resolved through the filter query path with an inclusive first-to-last
// day period; repository failures propagate as-is.
func (s *Service) Project(ctx context.Context, params ProjectionParams) ([]MonthlyBalance, error) {
	if params.Months <= 0 {
		return nil, ErrInvalidMonthCount
	}

	year, month, _ := DateOnly(params.Start).Date()

	var categoryIDs []uuid.UUID
	if params.CategoryID != nil {
		categoryIDs = []uuid.UUID{*params.CategoryID}
	}

	balances := make([]MonthlyBalance, 0, params.Months)

	for i := 0; i < params.Months; i++ {
		first := time.Date(year, month+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)

		period, err := NewDatePeriod(first, &last)
		if err != nil {
			return nil, err
		}

		txs, err := s.repo.FilterTransactions(ctx, Filter{
			Period:      &period,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			return nil, err
		}

		income := decimal.Zero
		expenses := decimal.Zero

		for _, tx := range txs {
			switch tx.Type {
			case TypeIncome:
				income = income.Add(tx.Amount.Amount())
			case TypeExpense:
				expenses = expenses.Add(tx.Amount.Amount())
			}
		}

		balances = append(balances, MonthlyBalance{
			Year:     first.Year(),
			Month:    first.Month(),
			Income:   income,
			Expenses: expenses,
			Net:      income.Sub(expenses),
		})
	}

	return balances, nil
}
