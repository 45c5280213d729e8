package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/internal/infrastructure/session"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := session.NewRedisStore(rdb, time.Hour)
	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, &entity.Session{UserID: "u1", Email: "a@lehigh.edu", SID: "s1", CreatedAt: now}))

	assert.True(t, mr.Exists(session.Key("u1")))
	assert.Equal(t, time.Hour, mr.TTL(session.Key("u1")))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@lehigh.edu", got.Email)
	assert.Equal(t, "s1", got.SID)
	assert.True(t, now.Equal(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Save(ctx, &entity.Session{UserID: "u2", SID: "s2", CreatedAt: now}))
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRedisStoreSlidingTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	store := session.NewRedisStore(rdb, time.Hour)
	require.NoError(t, store.Save(ctx, &entity.Session{UserID: "u1", SID: "s1", CreatedAt: time.Now().UTC()}))

	// active use keeps the session alive past the original expiry
	for i := 0; i < 3; i++ {
		mr.FastForward(45 * time.Minute)
		_, err := store.Get(ctx, "u1")
		require.NoError(t, err, "read %d", i)
		assert.Equal(t, time.Hour, mr.TTL(session.Key("u1")))
	}

	mr.FastForward(61 * time.Minute)
	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Save(ctx, &entity.Session{UserID: "u1", SID: "s1"}))
	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SID)

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
