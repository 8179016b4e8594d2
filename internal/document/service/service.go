package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/collabwrite/collabwrite/internal/document"
	"github.com/collabwrite/collabwrite/internal/document/repository"
	"github.com/collabwrite/collabwrite/pkg/metrics"
)

var (
	ErrNotFound = errors.New("not found")
)

// Service defines the document business operations used by the handler and
// editing-session layers.
type Service interface {
	// Create allocates a fresh id, seeds the owner as first collaborator
	// and persists the new document.
	Create(ctx context.Context, title, content, ownerID, ownerName, ownerImage string) (*document.Document, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	// List returns documents owned by userID or listing it as a
	// collaborator. Order is unspecified; callers sort for display.
	List(ctx context.Context, userID string) ([]*document.Document, error)
	// Save upserts the document as given. It does not touch any field,
	// including UpdatedAt; last write wins.
	Save(ctx context.Context, doc *document.Document) error
	// UpdateContent replaces the whole record with new content and a
	// fresh UpdatedAt.
	UpdateContent(ctx context.Context, id, content string) (*document.Document, error)
	Delete(ctx context.Context, id string) error
}

// NewService returns a Service backed by the given repository.
func NewService(repo repository.Repository) Service {
	return &docService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return NewService(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection. Caller
// is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection) Service {
	return NewService(repository.NewMongoRepo(col))
}

type docService struct {
	repo repository.Repository
}

func (s *docService) Create(ctx context.Context, title, content, ownerID, ownerName, ownerImage string) (*document.Document, error) {
	now := time.Now().UTC()
	d := &document.Document{
		ID:        document.NewID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Collaborators: []document.Collaborator{
			{ID: ownerID, Name: ownerName, Image: ownerImage},
		},
		Role: document.RoleOwner,
	}
	if err := s.repo.Save(ctx, d); err != nil {
		metrics.DocumentSaves.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.DocumentSaves.WithLabelValues("ok").Inc()
	return d, nil
}

func (s *docService) Get(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *docService) List(ctx context.Context, userID string) ([]*document.Document, error) {
	return s.repo.List(ctx, userID)
}

func (s *docService) Save(ctx context.Context, doc *document.Document) error {
	if err := s.repo.Save(ctx, doc); err != nil {
		metrics.DocumentSaves.WithLabelValues("error").Inc()
		return err
	}
	metrics.DocumentSaves.WithLabelValues("ok").Inc()
	return nil
}

func (s *docService) UpdateContent(ctx context.Context, id, content string) (*document.Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Content = content
	d.UpdatedAt = time.Now().UTC()
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *docService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
