package port

import (
	"context"
	"io"
	"lesson-media/internal/core/domain"
)

// ObjectStore is an interface to define object storage interactions.
// Every method may fail with domain.ErrStorageUnavailable or domain.ErrObjectNotFound.
type ObjectStore interface {
	StatObject(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	GetHeaderBytes(ctx context.Context, bucket, key string, n int64) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error
	DeleteObject(ctx context.Context, bucket, key string) error
	ObjectURL(bucket, key string) string
}
