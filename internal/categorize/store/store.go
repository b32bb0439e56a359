// Package store persists learned title-pattern mappings.
//
// Expected schema: category_suggestions(id uuid pk default, pattern text,
// category_id uuid references categories(id) on delete cascade,
// created_at timestamptz).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, title string) (uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_suggestions
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var categoryID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, title).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}

		return uuid.Nil, fmt.Errorf("finding category suggestion: %w", err)
	}

	return categoryID, nil
}

func (s *Store) CreateMapping(ctx context.Context, pattern string, categoryID uuid.UUID) error {
	query := `
		INSERT INTO category_suggestions (pattern, category_id, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, pattern, categoryID); err != nil {
		return fmt.Errorf("creating suggestion mapping: %w", err)
	}

	return nil
}
