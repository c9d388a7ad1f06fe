package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "db")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "db", `{"users":[]}`))

	val, found, err := s.Get(ctx, "db")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"users":[]}`, val)
}

func TestFileStore_OverwriteIsAtomicReplace(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "db", "v1"))
	require.NoError(t, s.Set(ctx, "db", "v2"))

	val, _, err := s.Get(ctx, "db")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = s.Get(ctx, "db")
	assert.Error(t, err)

	err = s.Set(ctx, "db", "v")
	assert.Error(t, err)
}
