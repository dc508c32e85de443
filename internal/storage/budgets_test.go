package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devichs/budgeteer/internal/model"
)

func TestSaveBudgetUpsert(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat, err := store.CreateCategory(ctx, "Groceries")
	require.NoError(t, err)

	set := func(amount string) *model.Budget {
		t.Helper()
		b, saveErr := store.SaveBudget(ctx, &model.Budget{
			CategoryID: cat.ID,
			Year:       2025,
			Month:      6,
			Amount:     decimal.RequireFromString(amount),
		})
		require.NoError(t, saveErr)
		return b
	}

	first := set("400.00")
	second := set("400.00")
	third := set("450.00")

	// Same row throughout, amount updated in place.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ID, third.ID)
	assert.True(t, decimal.RequireFromString("450.00").Equal(third.Amount), "got %s", third.Amount)

	budgets, err := store.ListBudgets(ctx, 2025, 6)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
}

func TestGetBudgetMissing(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat, err := store.CreateCategory(ctx, "Dining")
	require.NoError(t, err)

	b, err := store.GetBudget(ctx, cat.ID, 2025, 1)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestListBudgetsByPeriod(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	groceries, err := store.CreateCategory(ctx, "Groceries")
	require.NoError(t, err)
	dining, err := store.CreateCategory(ctx, "Dining")
	require.NoError(t, err)

	amount := decimal.RequireFromString("100")
	for _, b := range []*model.Budget{
		{CategoryID: groceries.ID, Year: 2025, Month: 6, Amount: amount},
		{CategoryID: dining.ID, Year: 2025, Month: 6, Amount: amount},
		{CategoryID: groceries.ID, Year: 2025, Month: 7, Amount: amount},
	} {
		_, err := store.SaveBudget(ctx, b)
		require.NoError(t, err)
	}

	june, err := store.ListBudgets(ctx, 2025, 6)
	require.NoError(t, err)
	require.Len(t, june, 2)
	// Ordered by category name.
	assert.Equal(t, dining.ID, june[0].CategoryID)
	assert.Equal(t, groceries.ID, june[1].CategoryID)

	august, err := store.ListBudgets(ctx, 2025, 8)
	require.NoError(t, err)
	assert.Empty(t, august)
}

func TestSaveBudgetValidation(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	cat, err := store.CreateCategory(ctx, "Utilities")
	require.NoError(t, err)

	t.Run("negative amount", func(t *testing.T) {
		_, err := store.SaveBudget(ctx, &model.Budget{
			CategoryID: cat.ID,
			Year:       2025,
			Month:      6,
			Amount:     decimal.RequireFromString("-1"),
		})
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})

	t.Run("month out of range", func(t *testing.T) {
		_, err := store.SaveBudget(ctx, &model.Budget{
			CategoryID: cat.ID,
			Year:       2025,
			Month:      13,
			Amount:     decimal.RequireFromString("10"),
		})
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})
}
