package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/money"
)

// Filter selects transactions. Every field is optional; absent fields match
// all rows and present fields combine with AND semantics.
type Filter struct {
	// Title matches by case-insensitive substring containment.
	Title string
	// Period matches dates within [start, end], or exactly start when the
	// period has no end.
	Period *DatePeriod
	Type   *Type
	// CategoryIDs is a membership test when non-empty.
	CategoryIDs []uuid.UUID
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	// FilterTransactions returns matches ordered by date descending, with
	// the owning category's name attached to each row.
	FilterTransactions(ctx context.Context, filter Filter) ([]*Transaction, error)
	CountTransactions(ctx context.Context) (int, error)

	// ExistingHashes reports which of the given idempotency hashes are
	// already persisted.
	ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error)
	// CreateBatch inserts all transactions atomically.
	CreateBatch(ctx context.Context, txs []*Transaction) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Title      string
	Amount     money.Money
	Date       time.Time
	Type       Type
	CategoryID uuid.UUID
}

type CreateRecurrentParams struct {
	CreateParams
	Period  Recurrence
	EndDate time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := New(params.Title, params.Amount, params.Date, params.Type, params.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) CreateRecurrent(ctx context.Context, params CreateRecurrentParams) (*Transaction, error) {
	tx, err := NewRecurrent(params.Title, params.Amount, params.Date, params.Type,
		params.CategoryID, params.Period, params.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Update replaces a transaction's amount and category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, amount money.Money, categoryID uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Update(amount, categoryID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, error) {
	return s.repo.FilterTransactions(ctx, filter)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountTransactions(ctx)
}

// ImportResult summarizes a statement import.
type ImportResult struct {
	Imported []*Transaction
	Skipped  int
}

// ImportBatch creates transactions from statement rows, skipping any whose
// idempotency hash is already persisted or repeated within the batch. New
// rows are inserted atomically.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	txs := make([]*Transaction, 0, len(params))

	for _, p := range params {
		tx, err := New(p.Title, p.Amount, p.Date, p.Type, p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("row %q on %s: %w", p.Title, p.Date.Format(time.DateOnly), err)
		}

		tx.IdempotencyHash = tx.ComputeIdempotencyHash()
		txs = append(txs, tx)
	}

	hashes := make([]string, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.IdempotencyHash
	}

	existing, err := s.repo.ExistingHashes(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("checking idempotency hashes: %w", err)
	}

	seen := make(map[string]struct{}, len(txs))

	var fresh []*Transaction

	skipped := 0

	for _, tx := range txs {
		if _, dup := existing[tx.IdempotencyHash]; dup {
			skipped++
			continue
		}

		if _, dup := seen[tx.IdempotencyHash]; dup {
			skipped++
			continue
		}

		seen[tx.IdempotencyHash] = struct{}{}
		fresh = append(fresh, tx)
	}

	if err := s.repo.CreateBatch(ctx, fresh); err != nil {
		return nil, fmt.Errorf("inserting imported transactions: %w", err)
	}

	return &ImportResult{Imported: fresh, Skipped: skipped}, nil
}
