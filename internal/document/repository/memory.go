package repository

import (
	"context"
	"sync"

	"github.com/collabwrite/collabwrite/internal/document"
)

// MemoryRepo is a mutex-guarded in-memory repository used for the standalone
// document service and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.Document)}
}

// clone copies the record including the collaborator slice, so callers and
// the store never share a backing array.
func clone(d *document.Document) *document.Document {
	cp := *d
	if d.Collaborators != nil {
		cp.Collaborators = append([]document.Collaborator(nil), d.Collaborators...)
	}
	return &cp
}

func (m *MemoryRepo) List(ctx context.Context, userID string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Document, 0, len(m.store))
	for _, d := range m.store {
		if visibleTo(d, userID) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		return clone(d), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Save(ctx context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[doc.ID] = clone(doc)
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}
