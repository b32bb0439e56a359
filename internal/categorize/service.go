// Package categorize suggests categories for transaction titles from
// learned title patterns.
package categorize

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// FindCategory returns the category mapped to the longest pattern
	// contained in title, or (uuid.Nil, nil) when nothing matches.
	FindCategory(ctx context.Context, title string) (uuid.UUID, error)
	CreateMapping(ctx context.Context, pattern string, categoryID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up a category for the given transaction title. Returns
// uuid.Nil when no learned pattern matches.
func (s *Service) Suggest(ctx context.Context, title string) (uuid.UUID, error) {
	return s.repo.FindCategory(ctx, title)
}

// Learn remembers that titles containing pattern belong to the category.
func (s *Service) Learn(ctx context.Context, pattern string, categoryID uuid.UUID) error {
	return s.repo.CreateMapping(ctx, pattern, categoryID)
}
