package export_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natog7/PersonalFinance/internal/export"
	"github.com/natog7/PersonalFinance/internal/money"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

type mockLister struct {
	txs []*transaction.Transaction
	err error
}

func (m *mockLister) List(context.Context, transaction.Filter) ([]*transaction.Transaction, error) {
	return m.txs, m.err
}

func TestExport(t *testing.T) {
	amount := func(v string) money.Money {
		m, err := money.New(decimal.RequireFromString(v), "BRL")
		require.NoError(t, err)

		return m
	}

	lister := &mockLister{
		txs: []*transaction.Transaction{
			{
				ID:           uuid.New(),
				Title:        "Salary",
				Amount:       amount("3500"),
				Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Type:         transaction.TypeIncome,
				CategoryName: "Work",
			},
			{
				ID:           uuid.New(),
				Title:        "Market",
				Amount:       amount("123.45"),
				Date:         time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				Type:         transaction.TypeExpense,
				CategoryName: "Groceries",
			},
		},
	}

	var buf bytes.Buffer

	n, err := export.NewService(lister).Export(context.Background(), transaction.Filter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,title,amount,currency,type,category", lines[0])
	assert.Equal(t, "2024-01-15,Salary,3500.00,BRL,income,Work", lines[1])
	assert.Equal(t, "2024-01-10,Market,-123.45,BRL,expense,Groceries", lines[2])
}

func TestExportListError(t *testing.T) {
	lister := &mockLister{err: errors.New("db down")}

	var buf bytes.Buffer

	_, err := export.NewService(lister).Export(context.Background(), transaction.Filter{}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
