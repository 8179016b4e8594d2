package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Regexp(t, "^[0-9a-z]{9}$", id)
		require.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestHasCollaborator(t *testing.T) {
	d := &Document{
		OwnerID: "user-1",
		Collaborators: []Collaborator{
			{ID: "user-1", Name: "Alice"},
			{ID: "user-2", Name: "Bob"},
		},
	}
	require.True(t, d.HasCollaborator("user-2"))
	require.False(t, d.HasCollaborator("user-3"))
}
