// Package category manages the hierarchical transaction categories.
package category

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultColor = "#000000"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var (
	ErrNotFound     = errors.New("category not found")
	ErrEmptyName    = errors.New("category name cannot be empty")
	ErrInvalidColor = errors.New("category color must be a hex code like #RRGGBB")

	// ErrInUse is returned when deleting a category that transactions or
	// subcategories still reference.
	ErrInUse = errors.New("category is referenced by transactions or subcategories")
)

// Category groups transactions. Parents are referenced by id, not owned;
// deleting a referenced parent is restricted.
type Category struct {
	ID               uuid.UUID
	Name             string
	Description      string
	Color            string
	ParentCategoryID *uuid.UUID
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New validates and builds a category. An empty color falls back to the
// default black.
func New(name, description, color string, parentID *uuid.UUID) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	color, err := validateColor(color)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Category{
		ID:               uuid.New(),
		Name:             name,
		Description:      strings.TrimSpace(description),
		Color:            color,
		ParentCategoryID: parentID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Activate toggles the category's active flag.
func (c *Category) Activate(active bool) {
	c.IsActive = active
	c.UpdatedAt = time.Now().UTC()
}

func validateColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultColor, nil
	}

	if !colorPattern.MatchString(color) {
		return "", ErrInvalidColor
	}

	return color, nil
}
