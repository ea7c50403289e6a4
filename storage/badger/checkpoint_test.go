package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/storage"
)

func TestCheckpoint(t *testing.T) {
	sessions, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		sessions.Close()
		backend.Close()
	}()

	ctx := context.Background()

	t.Run("missing checkpoint is nil", func(t *testing.T) {
		cp, err := checkpoints.LoadCheckpoint(ctx, "requests.txt")
		require.NoError(t, err)
		assert.Nil(t, cp)
	})

	t.Run("save then load", func(t *testing.T) {
		cp := &core.Checkpoint{Name: "requests.txt", Offset: 120}
		require.NoError(t, checkpoints.SaveCheckpoint(ctx, cp))
		assert.False(t, cp.UpdatedAt.IsZero())

		got, err := checkpoints.LoadCheckpoint(ctx, "requests.txt")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(120), got.Offset)
		assert.True(t, cp.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{Name: "requests.txt", Offset: 200}))
		got, err := checkpoints.LoadCheckpoint(ctx, "requests.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(200), got.Offset)
	})

	t.Run("names are independent", func(t *testing.T) {
		got, err := checkpoints.LoadCheckpoint(ctx, "other.txt")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.ErrorIs(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{}), storage.ErrInvalidQuery)
		assert.ErrorIs(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{Name: "x", Offset: -1}), storage.ErrInvalidQuery)
	})
}
