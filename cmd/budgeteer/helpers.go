package main

import (
	"context"
	"fmt"
	"time"

	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/config"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// openStorage opens the configured database and applies pending migrations.
// Callers must Close the returned storage.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// resolveAccount looks up an account by its display name.
func resolveAccount(ctx context.Context, store *storage.SQLiteStorage, name string) (*model.Account, error) {
	account, err := store.GetAccountByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, common.NewUserError(
			fmt.Sprintf("no account named %q; run 'budgeteer accounts list'", name),
			common.ErrAccountNotFound)
	}
	return account, nil
}

// resolveCategory looks up a category by its display name.
func resolveCategory(ctx context.Context, store *storage.SQLiteStorage, name string) (*model.Category, error) {
	category, err := store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.NewUserError(
			fmt.Sprintf("no category named %q; run 'budgeteer categories list'", name),
			common.ErrCategoryNotFound)
	}
	return category, nil
}

// parseDate parses a YYYY-MM-DD argument.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// parseAmount parses a decimal argument.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// money renders a decimal with monetary rounding for display.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// defaultPeriod returns the current year and month for period flags left
// unset.
func defaultPeriod() (int, int) {
	now := time.Now()
	return now.Year(), int(now.Month())
}
