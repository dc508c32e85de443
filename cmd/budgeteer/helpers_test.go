package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devichs/budgeteer/internal/cli"
	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	return store
}

func TestResolveAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	created, err := store.CreateAccount(ctx, "Checking", model.AccountTypeChecking, decimal.Zero)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		account, err := resolveAccount(ctx, store, "checking")
		require.NoError(t, err)
		assert.Equal(t, created.ID, account.ID)
	})

	t.Run("unknown yields user-facing error", func(t *testing.T) {
		_, err := resolveAccount(ctx, store, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrAccountNotFound)

		var userErr *common.UserError
		require.True(t, errors.As(err, &userErr))
		assert.Contains(t, userErr.UserMessage, "nope")
	})
}

func TestResolveCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	_, err := resolveCategory(ctx, store, "Dining")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCategoryNotFound)
}

func TestParseRange(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		start, end, err := parseRange("2025-06-01", "2025-06-30")
		require.NoError(t, err)
		assert.Equal(t, time.June, start.Month())
		assert.Equal(t, 30, end.Day())
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, _, err := parseRange("2025-06-30", "2025-06-01")
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrInvalidDateRange)
	})
}

func TestRenderError(t *testing.T) {
	t.Run("user error shows only the message", func(t *testing.T) {
		err := common.NewUserError("no account named \"nope\"", common.ErrAccountNotFound)
		out := renderError(err)
		assert.Contains(t, out, cli.ErrorIcon)
		assert.Contains(t, out, "no account named")
		assert.NotContains(t, out, common.ErrAccountNotFound.Error())
	})

	t.Run("plain error shown verbatim", func(t *testing.T) {
		out := renderError(errors.New("database is locked"))
		assert.Contains(t, out, cli.ErrorIcon)
		assert.Contains(t, out, "database is locked")
	})
}

func TestBudgetStatusNoBudget(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	viper.Set("database.path", dbPath)
	t.Cleanup(func() { viper.Set("database.path", "") })

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	_, err = store.FindOrCreateCategory(ctx, "Dining")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	cmd := budgetStatusCmd()
	cmd.SetContext(ctx)
	require.NoError(t, cmd.Flags().Set("category", "Dining"))
	require.NoError(t, cmd.Flags().Set("year", "2025"))
	require.NoError(t, cmd.Flags().Set("month", "6"))

	err = runBudgetStatus(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBudgetNotFound)
}
