package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	session := domain.NewSession("ops@example.com", time.Hour)

	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, *session, *loaded)

	// Loaded values are copies
	loaded.Email = "changed@example.com"
	again, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", again.Email)

	require.NoError(t, store.Clear(ctx, session.ID))
	require.NoError(t, store.Clear(ctx, session.ID))

	_, err = store.Load(ctx, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	_, err := NewSessionStore().Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	live := domain.NewSession("a@example.com", time.Hour)
	expired := domain.NewSession("b@example.com", time.Minute)
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, expired))

	removed, err := store.PurgeExpired(ctx, time.Now().Add(2*time.Minute))

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Len())
	_, err = store.Load(ctx, live.ID)
	assert.NoError(t, err)
}

func TestSessionStore_Ping(t *testing.T) {
	assert.NoError(t, NewSessionStore().Ping(context.Background()))
}
