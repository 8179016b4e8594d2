package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, ""), mr
}

func TestRedisSessionRoundTrip(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	s := &Session{
		RefreshToken: "tok-1",
		UserID:       "1",
		Name:         "Demo User",
		Email:        "demo@example.com",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByRefresh(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "1", got.UserID)
	require.Equal(t, "demo@example.com", got.Email)

	require.NoError(t, repo.DeleteByRefresh(ctx, "tok-1"))
	got, err = repo.GetByRefresh(ctx, "tok-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisSessionUnknownToken(t *testing.T) {
	repo, _ := newRedisRepo(t)
	got, err := repo.GetByRefresh(context.Background(), "never-issued")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisSessionTTLExpiry(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	s := &Session{
		RefreshToken: "tok-ttl",
		UserID:       "1",
		ExpiresAt:    time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, repo.Create(ctx, s))

	mr.FastForward(2 * time.Minute)
	got, err := repo.GetByRefresh(ctx, "tok-ttl")
	require.NoError(t, err)
	require.Nil(t, got)
}
