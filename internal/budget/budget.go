// Package budget implements budget reconciliation: per-category monthly
// spending targets compared against actual expense totals.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/service"
	"github.com/shopspring/decimal"
)

// Engine reads transactions and budgets from the entity store. It never
// writes balances; its only mutation is the budget upsert.
type Engine struct {
	store service.Storage
}

// New creates a reconciliation engine backed by the given store.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// monthRange returns the first and last day of (year, month).
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

func validatePeriod(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", common.ErrInvalidPeriod, month)
	}
	return nil
}

func (e *Engine) resolveCategory(ctx context.Context, categoryID int64) (*model.Category, error) {
	category, err := e.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: id %d", common.ErrCategoryNotFound, categoryID)
	}
	return category, nil
}

// SetBudget creates or updates the budget for (category, year, month). An
// existing budget for the same period has its amount replaced in place;
// the (category, year, month) key never gains a second row.
func (e *Engine) SetBudget(ctx context.Context, categoryID int64, year, month int, amount decimal.Decimal) (*model.Budget, error) {
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: budgeted amount cannot be negative", common.ErrInvalidAmount)
	}
	if err := validatePeriod(month); err != nil {
		return nil, err
	}

	category, err := e.resolveCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	slog.Info("setting budget",
		"category", category.Name,
		"year", year,
		"month", month,
		"amount", amount.String())

	return e.store.SaveBudget(ctx, &model.Budget{
		CategoryID: category.ID,
		Year:       year,
		Month:      month,
		Amount:     amount,
	})
}

// ActualSpending sums the expense transactions for a category within the
// calendar month (year, month). Income transactions are excluded. Returns
// zero when no matching transactions exist.
func (e *Engine) ActualSpending(ctx context.Context, categoryID int64, year, month int) (decimal.Decimal, error) {
	if err := validatePeriod(month); err != nil {
		return decimal.Zero, err
	}
	if _, err := e.resolveCategory(ctx, categoryID); err != nil {
		return decimal.Zero, err
	}

	start, end := monthRange(year, month)
	transactions, err := e.store.GetTransactionsByCategoryAndDateRange(ctx, categoryID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load transactions: %w", err)
	}

	total := decimal.Zero
	for _, txn := range transactions {
		if txn.Type == model.TransactionTypeExpense {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

// StatusForCategory reports budget-vs-actual for one category and period.
// Returns nil with no error when no budget is set for that period.
func (e *Engine) StatusForCategory(ctx context.Context, categoryID int64, year, month int) (*model.BudgetStatus, error) {
	if err := validatePeriod(month); err != nil {
		return nil, err
	}

	category, err := e.resolveCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	b, err := e.store.GetBudget(ctx, categoryID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	if b == nil {
		return nil, nil // No budget set for this category/period
	}

	actual, err := e.ActualSpending(ctx, categoryID, year, month)
	if err != nil {
		return nil, err
	}

	return &model.BudgetStatus{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Year:         year,
		Month:        month,
		Budgeted:     b.Amount,
		Actual:       actual,
		Remaining:    b.Amount.Sub(actual),
	}, nil
}

// StatusForPeriod reports budget-vs-actual for every budget in (year,
// month), in the store's retrieval order.
func (e *Engine) StatusForPeriod(ctx context.Context, year, month int) ([]model.BudgetStatus, error) {
	if err := validatePeriod(month); err != nil {
		return nil, err
	}

	budgets, err := e.store.ListBudgets(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	statuses := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		category, err := e.resolveCategory(ctx, b.CategoryID)
		if err != nil {
			return nil, err
		}

		actual, err := e.ActualSpending(ctx, b.CategoryID, year, month)
		if err != nil {
			return nil, err
		}

		statuses = append(statuses, model.BudgetStatus{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Year:         year,
			Month:        month,
			Budgeted:     b.Amount,
			Actual:       actual,
			Remaining:    b.Amount.Sub(actual),
		})
	}

	slog.Debug("computed period status", "year", year, "month", month, "budgets", len(statuses))
	return statuses, nil
}
