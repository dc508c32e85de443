package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/devichs/budgeteer/internal/model"
)

// GetBudget returns the budget for (category, year, month), or nil if none
// has been set.
func (s *SQLiteStorage) GetBudget(ctx context.Context, categoryID int64, year, month int) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "category id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, category_id, year, month, amount, created_at, updated_at
		FROM budgets
		WHERE category_id = ? AND year = ? AND month = ?`

	var b model.Budget
	var amount string
	err := s.db.QueryRowContext(ctx, query, categoryID, year, month).Scan(
		&b.ID, &b.CategoryID, &b.Year, &b.Month, &amount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // No budget set for this category/period
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	if b.Amount, err = parseStoredDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBudgets returns every budget for (year, month), ordered by category
// name for a stable sequence.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, year, month int) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT b.id, b.category_id, b.year, b.month, b.amount, b.created_at, b.updated_at
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.year = ? AND b.month = ?
		ORDER BY c.name`

	rows, err := s.db.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Year, &b.Month, &amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.Amount, err = parseStoredDecimal(amount, "amount"); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "year", year, "month", month, "count", len(budgets))
	return budgets, nil
}

// SaveBudget upserts a budget keyed on (category_id, year, month). An
// existing row keeps its identity and creation time; only the amount and
// updated_at change.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	now := time.Now()

	query := `
		INSERT INTO budgets (category_id, year, month, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id, year, month)
		DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query,
		budget.CategoryID, budget.Year, budget.Month, budget.Amount.String(), now, now,
	); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	saved, err := s.GetBudget(ctx, budget.CategoryID, budget.Year, budget.Month)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("budget vanished after save for category %d %d-%02d",
			budget.CategoryID, budget.Year, budget.Month)
	}

	slog.Info("saved budget",
		"category_id", saved.CategoryID,
		"year", saved.Year,
		"month", saved.Month,
		"amount", saved.Amount.String())
	return saved, nil
}
