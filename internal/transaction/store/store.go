// Package store persists transactions in postgres.
//
// Expected schema: transactions(id uuid pk, title text, amount numeric,
// currency char(3), date date, type smallint, category_id uuid references
// categories(id) on delete restrict, recur_period smallint null,
// recur_end_date date null, idempotency_hash text null unique,
// created_at timestamptz, updated_at timestamptz null).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natog7/PersonalFinance/internal/money"
	"github.com/natog7/PersonalFinance/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a title filter matches them
// literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

const selectColumns = `
	t.id, t.title, t.amount, t.currency, t.date, t.type, t.category_id,
	t.recur_period, t.recur_end_date, t.idempotency_hash,
	t.created_at, t.updated_at, c.name AS category_name
`

// scanTransaction reads one row in selectColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx           transaction.Transaction
		amount       decimal.Decimal
		currency     string
		typ          int16
		recurPeriod  sql.NullInt16
		recurEnd     sql.NullTime
		idemHash     sql.NullString
		categoryName sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Title, &amount, &currency, &tx.Date, &typ, &tx.CategoryID,
		&recurPeriod, &recurEnd, &idemHash,
		&tx.CreatedAt, &tx.UpdatedAt, &categoryName,
	); err != nil {
		return nil, err
	}

	m, err := money.New(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("reading amount: %w", err)
	}

	tx.Amount = m
	tx.Type = transaction.Type(typ)
	tx.IdempotencyHash = idemHash.String
	tx.CategoryName = categoryName.String
	tx.Date = transaction.DateOnly(tx.Date)

	if recurPeriod.Valid {
		tx.Recurrence = &transaction.RecurrenceRule{
			Period:  transaction.Recurrence(recurPeriod.Int16),
			EndDate: transaction.DateOnly(recurEnd.Time),
		}
	}

	return &tx, nil
}

const insertQuery = `
	INSERT INTO transactions (id, title, amount, currency, date, type, category_id,
		recur_period, recur_end_date, idempotency_hash, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func insertArgs(tx *transaction.Transaction) []any {
	var (
		recurPeriod sql.NullInt16
		recurEnd    sql.NullTime
		idemHash    sql.NullString
	)

	if tx.Recurrence != nil {
		recurPeriod = sql.NullInt16{Int16: int16(tx.Recurrence.Period), Valid: true}
		recurEnd = sql.NullTime{Time: tx.Recurrence.EndDate, Valid: true}
	}

	if tx.IdempotencyHash != "" {
		idemHash = sql.NullString{String: tx.IdempotencyHash, Valid: true}
	}

	return []any{
		tx.ID, tx.Title, tx.Amount.Amount(), tx.Amount.Currency(), tx.Date,
		int16(tx.Type), tx.CategoryID, recurPeriod, recurEnd, idemHash, tx.CreatedAt,
	}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if _, err := s.db.ExecContext(ctx, insertQuery, insertArgs(tx)...); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) FilterTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Title != "" {
		query += fmt.Sprintf(` AND t.title ILIKE '%%' || $%d || '%%' ESCAPE '\'`, argIdx)

		args = append(args, escapeLike(filter.Title))
		argIdx++
	}

	if filter.Period != nil {
		if end, ok := filter.Period.End(); ok {
			query += fmt.Sprintf(" AND t.date >= $%d AND t.date <= $%d", argIdx, argIdx+1)

			args = append(args, filter.Period.Start(), end)
			argIdx += 2
		} else {
			query += fmt.Sprintf(" AND t.date = $%d", argIdx)

			args = append(args, filter.Period.Start())
			argIdx++
		}
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, int16(*filter.Type))
		argIdx++
	}

	if len(filter.CategoryIDs) > 0 {
		placeholders := make([]string, len(filter.CategoryIDs))
		for i, id := range filter.CategoryIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIdx)

			args = append(args, id)
			argIdx++
		}

		query += " AND t.category_id IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY t.date DESC, t.created_at DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, currency = $2, category_id = $3, updated_at = $4
		WHERE id = $5
	`

	var updatedAt sql.NullTime
	if tx.UpdatedAt != nil {
		updatedAt = sql.NullTime{Time: *tx.UpdatedAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		tx.Amount.Amount(), tx.Amount.Currency(), tx.CategoryID, updatedAt, tx.ID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) CountTransactions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return count, nil
}

func (s *Store) ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	if len(hashes) == 0 {
		return map[string]struct{}{}, nil
	}

	placeholders := make([]string, len(hashes))
	args := make([]any, len(hashes))

	for i, h := range hashes {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = h
	}

	query := `SELECT idempotency_hash FROM transactions
		WHERE idempotency_hash IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("looking up idempotency hashes: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{}, len(hashes))

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning idempotency hash: %w", err)
		}

		existing[h] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hash rows: %w", err)
	}

	return existing, nil
}

// CreateBatch inserts all transactions in a single database transaction.
// Concurrent imports of the same statement are resolved by the unique
// idempotency_hash constraint rather than application locking.
func (s *Store) CreateBatch(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch insert: %w", err)
	}
	defer dbTx.Rollback()

	for _, tx := range txs {
		if _, err := dbTx.ExecContext(ctx, insertQuery, insertArgs(tx)...); err != nil {
			return fmt.Errorf("creating transaction %q on %s: %w",
				tx.Title, tx.Date.Format(time.DateOnly), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing batch insert: %w", err)
	}

	return nil
}
