package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devichs/budgeteer/internal/common"
)

func TestDir(t *testing.T) {
	t.Run("under home", func(t *testing.T) {
		t.Setenv("HOME", "/home/alex")
		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/alex", ".config", "budgeteer"), dir)
	})

	t.Run("no home directory", func(t *testing.T) {
		t.Setenv("HOME", "")
		_, err := Dir()
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/alex")
	t.Setenv("BUDGET_DIR", "/data")

	assert.Equal(t, "/home/alex/ledger.db", ExpandPath("~/ledger.db"))
	assert.Equal(t, "/home/alex", ExpandPath("~"))
	assert.Equal(t, "/data/ledger.db", ExpandPath("$BUDGET_DIR/ledger.db"))
	assert.Equal(t, "", ExpandPath(""))
}
