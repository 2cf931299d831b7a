package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_CreateAndValidate(t *testing.T) {
	mr, client := newRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()

	token, err := store.CreateSession(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, ok, err := store.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
	assert.Equal(t, SessionDuration, mr.TTL(SessionKeyPrefix+token))
	assert.Equal(t, SessionDuration, mr.TTL(UserSessionKeyPrefix+userID.String()))
}

func TestSessionStore_NewLoginRevokesOldToken(t *testing.T) {
	_, client := newRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()

	first, err := store.CreateSession(ctx, userID)
	require.NoError(t, err)
	second, err := store.CreateSession(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, ok, err := store.ValidateSession(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.ValidateSession(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	mr, client := newRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	token, err := store.CreateSession(ctx, uuid.New())
	require.NoError(t, err)
	mr.FastForward(SessionDuration)

	_, ok, err := store.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Invalidate(t *testing.T) {
	mr, client := newRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()

	token, err := store.CreateSession(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, store.InvalidateSession(ctx, token))

	_, ok, err := store.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(UserSessionKeyPrefix+userID.String()))

	require.NoError(t, store.InvalidateSession(ctx, token))
	require.NoError(t, store.InvalidateSession(ctx, ""))
}

func TestSessionStore_EmptyToken(t *testing.T) {
	_, client := newRedis(t)
	_, ok, err := NewSessionStore(client).ValidateSession(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
