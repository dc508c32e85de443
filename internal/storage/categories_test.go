package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when missing", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.FindOrCreateCategory(ctx, "Groceries")
		require.NoError(t, err)
		assert.Equal(t, "Groceries", cat.Name)
		assert.Positive(t, cat.ID)
	})

	t.Run("case-insensitive reuse", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		first, err := store.FindOrCreateCategory(ctx, "Groceries")
		require.NoError(t, err)

		second, err := store.FindOrCreateCategory(ctx, "groceries")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		// Original casing is kept.
		assert.Equal(t, "Groceries", second.Name)

		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		first, err := store.FindOrCreateCategory(ctx, "Rent")
		require.NoError(t, err)

		second, err := store.FindOrCreateCategory(ctx, "  Rent  ")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.FindOrCreateCategory(ctx, "   ")
		assert.Error(t, err)
	})
}

func TestGetCategory(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	created, err := store.CreateCategory(ctx, "Utilities")
	require.NoError(t, err)

	fetched, err := store.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Utilities", fetched.Name)

	missing, err := store.GetCategory(ctx, created.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListCategoriesOrder(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, name := range []string{"Travel", "Dining", "Rent"} {
		_, err := store.CreateCategory(ctx, name)
		require.NoError(t, err)
	}

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Dining", categories[0].Name)
	assert.Equal(t, "Rent", categories[1].Name)
	assert.Equal(t, "Travel", categories[2].Name)
}
