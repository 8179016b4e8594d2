package repository

import (
	"context"
	"errors"

	"github.com/collabwrite/collabwrite/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository provides document persistence. Save is an upsert keyed by ID:
// it replaces an existing record or appends a new one. Delete is a no-op
// when the id is absent.
type Repository interface {
	List(ctx context.Context, userID string) ([]*document.Document, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	Save(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id string) error
}

// visibleTo reports whether a document should appear in userID's listing:
// the user owns it or appears among its collaborators.
func visibleTo(d *document.Document, userID string) bool {
	return d.OwnerID == userID || d.HasCollaborator(userID)
}
