package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/collabwrite/collabwrite/internal/document"
)

func newDoc(id, owner string, collabs ...document.Collaborator) *document.Document {
	now := time.Now().UTC()
	return &document.Document{
		ID:            id,
		Title:         "t",
		Content:       "hello",
		CreatedAt:     now,
		UpdatedAt:     now,
		OwnerID:       owner,
		Collaborators: collabs,
		Role:          document.RoleOwner,
	}
}

func TestMemoryRepoCRUD(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	d := newDoc("abc123def", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Content)

	// upsert-as-replace
	d.Content = "new"
	require.NoError(t, r.Save(ctx, d))
	got2, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "new", got2.Content)

	require.NoError(t, r.Delete(ctx, d.ID))
	_, err = r.Get(ctx, d.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// delete of an absent id is not an error
	require.NoError(t, r.Delete(ctx, d.ID))
}

func TestMemoryRepoIsolatesCollaborators(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	d := newDoc("abc123def", "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	require.NoError(t, r.Save(ctx, d))

	// mutating the caller's slice after Save must not reach the store
	d.Collaborators[0].Name = "Mallory"
	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Collaborators[0].Name)

	// mutating a returned record must not reach the store either
	got.Collaborators[0].Name = "Mallory"
	again, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", again.Collaborators[0].Name)

	list, err := r.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	list[0].Collaborators[0].Name = "Mallory"
	final, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", final.Collaborators[0].Name)
}

func TestMemoryRepoListVisibility(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	owned := newDoc("ownedowned"[:9], "user-1", document.Collaborator{ID: "user-1", Name: "Alice"})
	shared := newDoc("sharedshar"[:9], "user-2",
		document.Collaborator{ID: "user-2", Name: "Bob"},
		document.Collaborator{ID: "user-1", Name: "Alice"},
	)
	foreign := newDoc("foreignfor"[:9], "user-3", document.Collaborator{ID: "user-3", Name: "Eve"})
	noCollabs := newDoc("nocollabno"[:9], "user-1")

	for _, d := range []*document.Document{owned, shared, foreign, noCollabs} {
		require.NoError(t, r.Save(ctx, d))
	}

	list, err := r.List(ctx, "user-1")
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, d := range list {
		ids[d.ID] = true
	}
	require.True(t, ids[owned.ID], "owner membership")
	require.True(t, ids[shared.ID], "collaborator membership")
	require.True(t, ids[noCollabs.ID], "ownership counts even with zero collaborators")
	require.False(t, ids[foreign.ID])
}
