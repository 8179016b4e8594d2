package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/collabwrite/collabwrite/internal/document"
	"github.com/collabwrite/collabwrite/pkg/logger"
)

// DefaultBlobKey is the single fixed key the blob repository stores all
// documents under.
const DefaultBlobKey = "collabwrite:documents"

// BlobRepo keeps every document in one JSON-serialized array under a single
// Redis key. Reads parse the whole blob and filter; writes parse, splice or
// append, and serialize the whole blob back. An absent or corrupt blob is
// treated as an empty store: the fault is logged and never surfaced to the
// caller.
type BlobRepo struct {
	client *redis.Client
	key    string
}

// NewBlobRepo creates a blob repository. Key may be empty, in which case
// DefaultBlobKey is used.
func NewBlobRepo(client *redis.Client, key string) *BlobRepo {
	if key == "" {
		key = DefaultBlobKey
	}
	return &BlobRepo{client: client, key: key}
}

// load reads and decodes the whole blob. Corruption is logged and reported
// as an empty slice.
func (r *BlobRepo) load(ctx context.Context) ([]*document.Document, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var docs []*document.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		logger.Errorf("document blob %q is corrupt, treating as empty: %v", r.key, err)
		return nil, nil
	}
	return docs, nil
}

func (r *BlobRepo) store(ctx context.Context, docs []*document.Document) error {
	b, err := json.Marshal(docs)
	if err != nil {
		// logged and swallowed: callers cannot observe serialization
		// failures through this path
		logger.Errorf("failed to serialize document blob %q: %v", r.key, err)
		return nil
	}
	return r.client.Set(ctx, r.key, b, 0).Err()
}

func (r *BlobRepo) List(ctx context.Context, userID string) ([]*document.Document, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		if visibleTo(d, userID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *BlobRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	docs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *BlobRepo) Save(ctx context.Context, doc *document.Document) error {
	docs, err := r.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, d := range docs {
		if d.ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	return r.store(ctx, docs)
}

func (r *BlobRepo) Delete(ctx context.Context, id string) error {
	docs, err := r.load(ctx)
	if err != nil {
		return err
	}
	out := docs[:0]
	for _, d := range docs {
		if d.ID != id {
			out = append(out, d)
		}
	}
	if len(out) == len(docs) {
		// absent id is not an error
		return nil
	}
	return r.store(ctx, out)
}
