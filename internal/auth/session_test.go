package auth

import (
	"context"
	"testing"
	"time"

	"warden/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()

	session := Session{
		ID:        NewSessionID(),
		AccountID: 7,
		UserName:  "bob",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Lookup(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.AccountID, got.AccountID)
	assert.Equal(t, session.UserName, got.UserName)
	assert.Equal(t, session.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Lookup(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLocalSessionStore(t *testing.T) {
	exerciseStore(t, NewLocalSessionStore(16, time.Hour))
}

func TestLocalSessionStoreExpiry(t *testing.T) {
	store := NewLocalSessionStore(16, time.Hour)
	ctx := context.Background()
	expired := Session{ID: NewSessionID(), AccountID: 1, ExpiresAt: time.Now().Add(-time.Second)}
	require.NoError(t, store.Save(ctx, expired))

	_, err := store.Lookup(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisSessionStore(client, "test:session:")
	exerciseStore(t, store)

	session := Session{ID: NewSessionID(), AccountID: 3, UserName: "carol", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(context.Background(), session))
	assert.True(t, mr.Exists("test:session:"+session.ID))

	mr.FastForward(2 * time.Minute)
	_, err := store.Lookup(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewSessionStoreSelection(t *testing.T) {
	store, err := NewSessionStore(&config.Config{SessionStore: SessionStoreLocal, SessionLocalSize: 8}, time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &LocalSessionStore{}, store)

	mr := miniredis.RunT(t)
	store, err = NewSessionStore(&config.Config{SessionStore: SessionStoreRedis, RedisAddr: mr.Addr()}, time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &RedisSessionStore{}, store)

	_, err = NewSessionStore(&config.Config{SessionStore: "memcached"}, time.Minute)
	assert.Error(t, err)
}
