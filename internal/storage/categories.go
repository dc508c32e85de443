package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/devichs/budgeteer/internal/model"
)

// GetCategory returns a category by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "category id"); err != nil {
		return nil, err
	}
	return s.getCategoryTx(ctx, nil, id)
}

func (s *SQLiteStorage) getCategoryTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Category, error) {
	query := `
		SELECT id, name, created_at
		FROM categories
		WHERE id = ?`

	var cat model.Category
	err := s.q(tx).QueryRowContext(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// GetCategoryByName returns a category by name using a case-insensitive
// match, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, created_at
		FROM categories
		WHERE name = ? COLLATE NOCASE`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// CreateCategory creates a new category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	now := time.Now()

	query := `
		INSERT INTO categories (name, created_at)
		VALUES (?, ?)`

	result, err := s.db.ExecContext(ctx, query, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "id", id, "name", name)
	return &model.Category{
		ID:        id,
		Name:      name,
		CreatedAt: now,
	}, nil
}

// FindOrCreateCategory returns the category with the given name, matched
// case-insensitively, creating it if no match exists. The unique NOCASE
// constraint on the name column is the backstop against duplicate creation.
func (s *SQLiteStorage) FindOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	existing, err := s.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	slog.Debug("category not found, creating", "name", name)
	return s.CreateCategory(ctx, name)
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}
