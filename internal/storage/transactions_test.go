package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devichs/budgeteer/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// insertTransaction writes one transaction through the Tx path used by the
// posting engine.
func insertTransaction(t *testing.T, store *SQLiteStorage, txn *model.Transaction) *model.Transaction {
	t.Helper()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	saved, err := tx.SaveTransaction(ctx, txn)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return saved
}

func TestTransactionQueries(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	acc, err := store.CreateAccount(ctx, "Checking", model.AccountTypeChecking, decimal.Zero)
	require.NoError(t, err)
	groceries, err := store.CreateCategory(ctx, "Groceries")
	require.NoError(t, err)

	amount := decimal.RequireFromString("10.00")
	insertTransaction(t, store, &model.Transaction{
		Amount: amount, Type: model.TransactionTypeExpense,
		Date: date(2025, time.June, 5), Description: "corner shop",
		CategoryID: &groceries.ID, AccountID: acc.ID,
	})
	insertTransaction(t, store, &model.Transaction{
		Amount: amount, Type: model.TransactionTypeIncome,
		Date: date(2025, time.June, 10), Description: "refund",
		CategoryID: &groceries.ID, AccountID: acc.ID,
	})
	insertTransaction(t, store, &model.Transaction{
		Amount: amount, Type: model.TransactionTypeExpense,
		Date: date(2025, time.July, 1), Description: "market run",
		CategoryID: &groceries.ID, AccountID: acc.ID,
	})

	t.Run("by account", func(t *testing.T) {
		txns, err := store.GetTransactionsByAccount(ctx, acc.ID)
		require.NoError(t, err)
		assert.Len(t, txns, 3)
	})

	t.Run("by category and range is inclusive", func(t *testing.T) {
		txns, err := store.GetTransactionsByCategoryAndDateRange(ctx, groceries.ID,
			date(2025, time.June, 1), date(2025, time.June, 30))
		require.NoError(t, err)
		assert.Len(t, txns, 2)
	})

	t.Run("range excludes later months", func(t *testing.T) {
		txns, err := store.GetTransactionsByCategoryAndDateRange(ctx, groceries.ID,
			date(2025, time.July, 1), date(2025, time.July, 31))
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "market run", txns[0].Description)
	})

	t.Run("inverted range yields empty", func(t *testing.T) {
		txns, err := store.GetTransactionsByCategoryAndDateRange(ctx, groceries.ID,
			date(2025, time.June, 30), date(2025, time.June, 1))
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("by type and range", func(t *testing.T) {
		txns, err := store.GetTransactionsByTypeAndDateRange(ctx, model.TransactionTypeExpense,
			date(2025, time.June, 1), date(2025, time.July, 31))
		require.NoError(t, err)
		assert.Len(t, txns, 2)
	})

	t.Run("search by description is case-insensitive", func(t *testing.T) {
		txns, err := store.SearchTransactionsByDescription(ctx, "MARKET")
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "market run", txns[0].Description)
	})

	t.Run("round-trip preserves fields", func(t *testing.T) {
		txns, err := store.GetTransactionsByAccount(ctx, acc.ID)
		require.NoError(t, err)
		for _, txn := range txns {
			assert.True(t, amount.Equal(txn.Amount), "got %s", txn.Amount)
			require.NotNil(t, txn.CategoryID)
			assert.Equal(t, groceries.ID, *txn.CategoryID)
			assert.Equal(t, acc.ID, txn.AccountID)
			assert.False(t, txn.CreatedAt.IsZero())
		}
	})
}

func TestSaveTransactionValidation(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	acc, err := store.CreateAccount(ctx, "Checking", model.AccountTypeChecking, decimal.Zero)
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	t.Run("zero amount", func(t *testing.T) {
		_, err := tx.SaveTransaction(ctx, &model.Transaction{
			Amount: decimal.Zero, Type: model.TransactionTypeExpense,
			Date: date(2025, time.June, 1), AccountID: acc.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := tx.SaveTransaction(ctx, &model.Transaction{
			Amount: decimal.RequireFromString("5"), Type: model.TransactionTypeExpense,
			AccountID: acc.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := tx.SaveTransaction(ctx, &model.Transaction{
			Amount: decimal.RequireFromString("5"), Type: model.TransactionType("transfer"),
			Date: date(2025, time.June, 1), AccountID: acc.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})
}
