package export

import (
	"context"
	"errors"
	"net/http/httptest"
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

type stubLister struct {
	txs []*transaction.Transaction
	err error
}

func (s *stubLister) List(context.Context, transaction.Filter) ([]*transaction.Transaction, error) {
	return s.txs, s.err
}

func TestExportCSV(t *testing.T) {
	amount, err := money.New(decimal.RequireFromString("42.50"), "BRL")
	require.NoError(t, err)

	lister := &stubLister{
		txs: []*transaction.Transaction{
			{
				ID:           uuid.New(),
				Title:        "Market",
				Amount:       amount,
				Date:         time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
				Type:         transaction.TypeExpense,
				CategoryName: "Groceries",
			},
		},
	}

	h := NewHandler(export.NewService(lister))

	rec := httptest.NewRecorder()
	h.exportCSV(rec, httptest.NewRequest("GET", "/export", nil))

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,title,amount,currency,type,category", lines[0])
	assert.Equal(t, "2024-02-05,Market,-42.50,BRL,expense,Groceries", lines[1])
}

func TestExportCSVListError(t *testing.T) {
	h := NewHandler(export.NewService(&stubLister{err: errors.New("db down")}))

	rec := httptest.NewRecorder()
	h.exportCSV(rec, httptest.NewRequest("GET", "/export", nil))

	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error": "internal error"}`, rec.Body.String())
	assert.NotEqual(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestExportCSVBadQuery(t *testing.T) {
	h := NewHandler(export.NewService(&stubLister{}))

	rec := httptest.NewRecorder()
	h.exportCSV(rec, httptest.NewRequest("GET", "/export?type=7", nil))

	assert.Equal(t, 400, rec.Code)
}
