package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/collabwrite/collabwrite/internal/document"
)

func newBlobRepo(t *testing.T) (*BlobRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBlobRepo(client, ""), mr
}

func TestBlobRepoUpsert(t *testing.T) {
	r, mr := newBlobRepo(t)
	ctx := context.Background()

	d := newDoc("abc123def", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, d.Title, got.Title)

	// the whole store lives under one key as a JSON array
	raw, err := mr.Get(DefaultBlobKey)
	require.NoError(t, err)
	var arr []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &arr))
	require.Len(t, arr, 1)

	// saving an unseen id inserts rather than errors
	other := newDoc("zzz999zzz", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, other))
	list, err := r.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// saving an existing id replaces the record in place
	d.Content = "rewritten"
	require.NoError(t, r.Save(ctx, d))
	got, err = r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "rewritten", got.Content)
	list, err = r.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestBlobRepoCorruptBlobTreatedAsEmpty(t *testing.T) {
	r, mr := newBlobRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DefaultBlobKey, "{not json"))

	list, err := r.List(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = r.Get(ctx, "abc123def")
	require.ErrorIs(t, err, ErrNotFound)

	// a write after corruption starts over from an empty store
	d := newDoc("abc123def", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, d))
	list, err = r.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestBlobRepoDelete(t *testing.T) {
	r, _ := newBlobRepo(t)
	ctx := context.Background()

	d := newDoc("abc123def", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, d))
	require.NoError(t, r.Delete(ctx, d.ID))
	_, err := r.Get(ctx, d.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// absent id is a no-op
	require.NoError(t, r.Delete(ctx, "nosuchid1"))
}
