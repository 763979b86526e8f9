// Package memory is an in-memory object store used by tests and local runs without minio.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"lesson-media/internal/core/domain"
	"maps"
	"net/url"
	"sync"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// Store is a concurrency safe in-memory object store with last-write-wins semantics per key
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	puts    []string

	// FailPut makes every PutObject fail with domain.ErrStorageUnavailable when set
	FailPut bool
	// FailBucket makes puts into that bucket fail with domain.ErrStorageUnavailable
	FailBucket string
}

// NewStore creates an empty store
func NewStore(baseURL string) *Store {
	return &Store{objects: make(map[string]object), baseURL: baseURL}
}

func id(bucket, key string) string {
	return bucket + "/" + key
}

// StatObject returns object info
func (s *Store) StatObject(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[id(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id(bucket, key), domain.ErrObjectNotFound)
	}
	return &domain.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		SizeBytes:   int64(len(obj.data)),
		ContentType: obj.contentType,
		Metadata:    maps.Clone(obj.metadata),
	}, nil
}

// GetObject returns a reader over a snapshot of the object
func (s *Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[id(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id(bucket, key), domain.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// GetHeaderBytes returns up to n leading bytes
func (s *Store) GetHeaderBytes(ctx context.Context, bucket, key string, n int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[id(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id(bucket, key), domain.ErrObjectNotFound)
	}
	if int64(len(obj.data)) < n {
		n = int64(len(obj.data))
	}
	return bytes.Clone(obj.data[:n]), nil
}

// PutObject stores the whole content of r
func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.FailPut || (s.FailBucket != "" && s.FailBucket == bucket) {
		return fmt.Errorf("put %s: %w", id(bucket, key), domain.ErrStorageUnavailable)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", id(bucket, key), domain.ErrStorageUnavailable, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("put %s: %w: got %d bytes, expected %d", id(bucket, key), domain.ErrStorageUnavailable, len(data), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id(bucket, key)] = object{data: data, contentType: contentType, metadata: maps.Clone(metadata)}
	s.puts = append(s.puts, id(bucket, key))
	return nil
}

// DeleteObject removes an object, deleting a missing key is not an error
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, id(bucket, key))
	return nil
}

// ObjectURL returns the url of an object, the key escaped like the minio adapter does
func (s *Store) ObjectURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, url.PathEscape(key))
}

// Seed stores an object without counting it as a put
func (s *Store) Seed(bucket, key string, data []byte, contentType string, metadata map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id(bucket, key)] = object{data: bytes.Clone(data), contentType: contentType, metadata: maps.Clone(metadata)}
}

// Bytes returns a copy of the stored object, nil when missing
func (s *Store) Bytes(bucket, key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id(bucket, key)]
	if !ok {
		return nil
	}
	return bytes.Clone(obj.data)
}

// Puts returns the bucket/key of every successful put in order
func (s *Store) Puts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.puts...)
}

// Len returns the number of stored objects
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
