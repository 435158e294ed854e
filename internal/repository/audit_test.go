package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) *AuditStore {
	t.Helper()
	s, err := NewAuditStore(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAuditStoreRoundTrip(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()
	runID := uuid.New()

	require.NoError(t, s.BeginRun(ctx, runID, "May", "2026"))
	require.NoError(t, s.RecordAttempt(ctx, runID, "1234", "asha@example.com", 1, false, errors.New("timeout")))
	require.NoError(t, s.RecordAttempt(ctx, runID, "1234", "asha@example.com", 2, true, nil))
	require.NoError(t, s.FinishRun(ctx, runID, 3, 1))

	attempts, err := s.AttemptsForRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	assert.Equal(t, "1234", attempts[0].Code)
	assert.Equal(t, "asha@example.com", attempts[0].Recipient)
	assert.Equal(t, 1, attempts[0].Attempt)
	assert.False(t, attempts[0].Delivered)
	assert.Equal(t, "timeout", attempts[0].Error)
	assert.False(t, attempts[0].CreatedAt.IsZero())

	assert.Equal(t, 2, attempts[1].Attempt)
	assert.True(t, attempts[1].Delivered)
	assert.Empty(t, attempts[1].Error)
}

func TestAuditStoreIsolatesRuns(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, s.BeginRun(ctx, first, "May", "2026"))
	require.NoError(t, s.BeginRun(ctx, second, "Jun", "2026"))
	require.NoError(t, s.RecordAttempt(ctx, first, "1", "a@example.com", 1, true, nil))
	require.NoError(t, s.RecordAttempt(ctx, second, "2", "b@example.com", 1, true, nil))

	attempts, err := s.AttemptsForRun(ctx, first)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "a@example.com", attempts[0].Recipient)
}
