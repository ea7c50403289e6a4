package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnConflict_Success(t *testing.T) {
	attempts := 0
	err := retryOnConflict(context.Background(), func() error {
		attempts++
		return nil
	}, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryOnConflict_EventualSuccess(t *testing.T) {
	attempts := 0
	err := retryOnConflict(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return badger.ErrConflict
		}
		return nil
	}, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryOnConflict_AllAttemptsConflict(t *testing.T) {
	attempts := 0
	err := retryOnConflict(context.Background(), func() error {
		attempts++
		return badger.ErrConflict
	}, 3, time.Millisecond)
	assert.ErrorIs(t, err, badger.ErrConflict)
	assert.Equal(t, 3, attempts)
}

func TestRetryOnConflict_OtherErrorsAreFinal(t *testing.T) {
	attempts := 0
	boom := errors.New("disk full")
	err := retryOnConflict(context.Background(), func() error {
		attempts++
		return boom
	}, 3, time.Millisecond)
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryOnConflict_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := retryOnConflict(ctx, func() error {
		attempts++
		cancel()
		return badger.ErrConflict
	}, 5, 50*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryOnConflict_ZeroAttempts(t *testing.T) {
	attempts := 0
	err := retryOnConflict(context.Background(), func() error {
		attempts++
		return nil
	}, 0, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}
