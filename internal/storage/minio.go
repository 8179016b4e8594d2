package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ExportStore holds exported document snapshots in object storage and hands
// out presigned download URLs.
type ExportStore struct {
	client *minio.Client
	bucket string
}

// NewExportStore creates a MinIO-backed export store and ensures the bucket exists.
func NewExportStore(cfg *MinIOConfig) (*ExportStore, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &ExportStore{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// PutMarkdown uploads a markdown snapshot under the given key.
func (s *ExportStore) PutMarkdown(ctx context.Context, key, content string) error {
	rd := strings.NewReader(content)
	_, err := s.client.PutObject(ctx, s.bucket, key, rd, int64(rd.Len()),
		minio.PutObjectOptions{ContentType: "text/markdown; charset=utf-8"})
	return err
}

// PresignedURL returns a presigned GET URL valid for the given duration.
func (s *ExportStore) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
