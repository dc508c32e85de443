package importer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devichs/budgeteer/internal/common"
	"github.com/devichs/budgeteer/internal/ledger"
	"github.com/devichs/budgeteer/internal/model"
	"github.com/devichs/budgeteer/internal/storage"
)

func newTestPipeline(t *testing.T) (*Pipeline, *storage.SQLiteStorage, *model.Account) {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	account, err := store.CreateAccount(ctx, "Checking", model.AccountTypeChecking, decimal.Zero)
	require.NoError(t, err)

	return New(store, ledger.New(store)), store, account
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	pipeline, store, account := newTestPipeline(t)

	feed := strings.Join([]string{
		"Date,Description,Category,Amount",
		"2025-06-01,Paycheck,,3000.00",
		"2025-06-02,Supermarket,Groceries,-52.30",
		"2025-06-03,Cafe,Dining,-8.20",
	}, "\n")

	summary, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), account.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Errors)

	updated, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	want := decimal.RequireFromString("2939.50")
	assert.True(t, want.Equal(updated.Balance), "got %s", updated.Balance)

	// The uncategorized paycheck has no category reference.
	txns, err := store.GetTransactionsByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	for _, txn := range txns {
		if txn.Description == "Paycheck" {
			assert.Nil(t, txn.CategoryID)
			assert.Equal(t, model.TransactionTypeIncome, txn.Type)
		} else {
			assert.NotNil(t, txn.CategoryID)
			assert.Equal(t, model.TransactionTypeExpense, txn.Type)
		}
		// Sign is never persisted.
		assert.True(t, txn.Amount.Sign() > 0)
	}
}

func TestImportCSVPartialFailure(t *testing.T) {
	ctx := context.Background()
	pipeline, store, account := newTestPipeline(t)

	feed := strings.Join([]string{
		"Date,Description,Category,Amount",
		"2025-06-01,Paycheck,,1000.00",
		"2025-06-02,Supermarket,Groceries,-40.00",
		"June 3rd,Bad date,Groceries,-10.00",
		"2025-06-04,Cafe,Dining,-5.00",
		"2025-06-05,Empty amount,Dining,",
	}, "\n")

	summary, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), account.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalRows)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Contains(t, summary.Errors[0], "row 3")
	assert.Contains(t, summary.Errors[1], "row 5")

	// Balance reflects only the successful rows.
	updated, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	want := decimal.RequireFromString("955.00")
	assert.True(t, want.Equal(updated.Balance), "got %s", updated.Balance)
}

func TestImportCSVCategoryDedup(t *testing.T) {
	ctx := context.Background()
	pipeline, store, account := newTestPipeline(t)

	feed := strings.Join([]string{
		"Date,Description,Category,Amount",
		"2025-06-01,Shop A,Groceries,-10.00",
		"2025-06-02,Shop B,groceries,-20.00",
	}, "\n")

	summary, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Groceries", categories[0].Name)
}

func TestImportCSVHeaderOrderIndependent(t *testing.T) {
	ctx := context.Background()
	pipeline, store, account := newTestPipeline(t)

	feed := strings.Join([]string{
		"Amount, Category ,Description,Date",
		"-15.00,Dining,Lunch,2025-06-01",
	}, "\n")

	summary, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	updated, err := store.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	want := decimal.RequireFromString("-15.00")
	assert.True(t, want.Equal(updated.Balance), "got %s", updated.Balance)
}

func TestImportCSVUnknownAccount(t *testing.T) {
	ctx := context.Background()
	pipeline, _, _ := newTestPipeline(t)

	feed := "Date,Description,Category,Amount\n2025-06-01,x,,1.00\n"
	_, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), 9999)
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestImportCSVStructuralFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("empty feed", func(t *testing.T) {
		pipeline, _, account := newTestPipeline(t)
		_, err := pipeline.ImportCSV(ctx, strings.NewReader(""), account.ID)
		assert.ErrorIs(t, err, common.ErrStructuralImport)
	})

	t.Run("missing required column", func(t *testing.T) {
		pipeline, _, account := newTestPipeline(t)
		feed := "Date,Description,Amount\n2025-06-01,x,1.00\n"
		_, err := pipeline.ImportCSV(ctx, strings.NewReader(feed), account.ID)
		assert.ErrorIs(t, err, common.ErrStructuralImport)
	})

	t.Run("mid-feed break keeps partial summary", func(t *testing.T) {
		pipeline, store, account := newTestPipeline(t)

		feed := &brokenFeed{data: []byte(strings.Join([]string{
			"Date,Description,Category,Amount",
			"2025-06-01,Paycheck,,1000.00",
			"",
		}, "\n"))}

		summary, err := pipeline.ImportCSV(ctx, feed, account.ID)
		require.ErrorIs(t, err, common.ErrStructuralImport)

		// The row read before the break was posted and committed.
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.Imported)

		updated, getErr := store.GetAccount(ctx, account.ID)
		require.NoError(t, getErr)
		want := decimal.RequireFromString("1000.00")
		assert.True(t, want.Equal(updated.Balance), "got %s", updated.Balance)
	})
}

// brokenFeed serves its data and then fails instead of reporting EOF.
type brokenFeed struct {
	data []byte
	off  int
}

func (r *brokenFeed) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

func TestParseRow(t *testing.T) {
	h, err := parseHeader([]string{"Date", "Description", "Category", "Amount"})
	require.NoError(t, err)

	t.Run("negative amount becomes expense", func(t *testing.T) {
		row, err := parseRow(h, []string{"2025-06-01", "Shop", "Groceries", "-12.34"})
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeExpense, row.txnType)
		assert.True(t, decimal.RequireFromString("12.34").Equal(row.amount))
	})

	t.Run("positive amount becomes income", func(t *testing.T) {
		row, err := parseRow(h, []string{"2025-06-01", "Paycheck", "", "100.00"})
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeIncome, row.txnType)
		assert.Empty(t, row.categoryName)
	})

	t.Run("zero amount is income", func(t *testing.T) {
		row, err := parseRow(h, []string{"2025-06-01", "Zero", "", "0.00"})
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeIncome, row.txnType)
	})

	t.Run("empty date", func(t *testing.T) {
		_, err := parseRow(h, []string{"", "x", "", "1.00"})
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("empty amount", func(t *testing.T) {
		_, err := parseRow(h, []string{"2025-06-01", "x", "", ""})
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := parseRow(h, []string{"01/06/2025", "x", "", "1.00"})
		assert.ErrorIs(t, err, common.ErrInvalidDate)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := parseRow(h, []string{"2025-06-01", "x", "", "twelve"})
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	})
}
