// Package export writes filtered transactions as CSV, the same shape the
// statement importer accepts.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/natog7/PersonalFinance/internal/transaction"
)

// Lister is the slice of the transaction service the exporter needs.
type Lister interface {
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

var header = []string{"date", "title", "amount", "currency", "type", "category"}

// Export streams the transactions matching filter to w. Expenses carry a
// negative amount so the file round-trips through the importer.
func (s *Service) Export(ctx context.Context, filter transaction.Filter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		amount := tx.Amount.Amount()
		if tx.Type == transaction.TypeExpense {
			amount = amount.Neg()
		}

		record := []string{
			tx.Date.Format(time.DateOnly),
			tx.Title,
			amount.StringFixed(2),
			tx.Amount.Currency(),
			tx.Type.String(),
			tx.CategoryName,
		}

		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}
