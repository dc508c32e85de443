package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	t.Run("console format", func(t *testing.T) {
		require.NoError(t, SetupLogger(slog.LevelInfo, "console"))
	})

	t.Run("json format", func(t *testing.T) {
		require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		err := SetupLogger(slog.LevelInfo, "xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLogError(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	LogError(errors.New("disk full"), "save failed", Fields{"account": "Checking"})

	out := buf.String()
	assert.Contains(t, out, "save failed")
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "account=Checking")
}
