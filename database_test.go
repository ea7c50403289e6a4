package tagit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tagit/core"
	"github.com/poiesic/tagit/detect"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.SessionRepository())
		assert.NotNil(t, db.CheckpointRepository())
		assert.NotNil(t, db.Detector())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("invalid detector config", func(t *testing.T) {
		cfg := detect.NewConfig(detect.WithBudgetConfidence(2))
		db, err := NewDatabase("", WithInMemory(), WithDetectorConfig(cfg))
		assert.ErrorIs(t, err, detect.ErrInvalidConfig)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}

func TestDatabase_SessionLifecycle(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	c, err := db.OpenSession(ctx, "Weekend")
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	c.Merge(db.Detector().Detect("3 pieces, 11th, €800k")...)
	saved, err := db.SaveSession(ctx, "Weekend", c)
	require.NoError(t, err)
	assert.Equal(t, core.SessionID("Weekend"), saved.Id)

	restored, err := db.OpenSession(ctx, "weekend")
	require.NoError(t, err)
	assert.Equal(t, c.Len(), restored.Len())
	assert.True(t, restored.HasMinimumCriteria())
}

func TestDatabase_NewBatchRunner(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	runner, err := db.NewBatchRunner("input.txt")
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.Run(ctx, []string{"92", "4 piees"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Hauts-de-Seine", results[0].Tags[0].Label)

	cp, err := db.CheckpointRepository().LoadCheckpoint(ctx, "input.txt")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, int64(2), cp.Offset)
}
