package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/suru/internal/store"
)

func TestGetMissingKey(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Get(context.Background(), "suru")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetThenGet(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "suru", `{"items":[]}`))
	got, err := s.Get(ctx, "suru")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, got)

	raw, err := os.ReadFile(filepath.Join(dir, "suru.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(raw))
}

func TestSetOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "suru", "first"))
	require.NoError(t, s.Set(ctx, "suru", "second"))

	got, err := s.Get(ctx, "suru")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "suru.json", entries[0].Name())
}

func TestSetCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir)
	require.NoError(t, s.Set(context.Background(), "suru", "x"))
	_, err := os.Stat(filepath.Join(dir, "suru.json"))
	assert.NoError(t, err)
}

func TestRejectsPathKeys(t *testing.T) {
	s := New(t.TempDir())
	err := s.Set(context.Background(), "../escape", "x")
	assert.ErrorIs(t, err, store.ErrInvalidKey)
}

func TestCanceledContext(t *testing.T) {
	s := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, "suru", "x"), context.Canceled)
}
