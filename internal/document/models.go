package document

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Role describes the relationship between the current viewer and a document.
// It is computed at creation time relative to the creating user and is not
// persisted per collaborator.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Collaborator is one entry in a document's collaborator list. The list is
// append-only in practice; there is no removal path.
type Collaborator struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

// Document is the persistent document model. Updates replace the whole
// record; there are no field-level patch semantics.
type Document struct {
	ID            string         `json:"id" bson:"id"`
	Title         string         `json:"title" bson:"title"`
	Content       string         `json:"content,omitempty" bson:"content,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
	OwnerID       string         `json:"ownerId" bson:"ownerId"`
	Collaborators []Collaborator `json:"collaborators" bson:"collaborators"`
	Role          Role           `json:"role" bson:"role"`
}

// HasCollaborator reports whether userID appears in the collaborator list.
func (d *Document) HasCollaborator(userID string) bool {
	for _, c := range d.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a random 9-character base-36 identifier. Uniqueness is
// probabilistic only; collisions are not detected (known weakness).
func NewID() string {
	b := make([]byte, 9)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform RNG is gone;
			// there is nothing sensible to fall back to
			panic(err)
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b)
}
