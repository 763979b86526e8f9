package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client  *minio.Client
	config  config.MinioConfig
	baseURL string
	logger  *slog.Logger
}

// NewAdapter returns Adapter, the video and asset buckets are created when missing
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	for _, bucket := range uniqueBuckets(cfg.VideoBucket, cfg.AssetBucket) {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check if bucket %s exists: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
			logger.Info("bucket created", slog.String("bucket", bucket))
		}
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}

	return &Adapter{client: client, config: cfg, baseURL: baseURL, logger: logger}, nil
}

// StatObject retrieves obj info
func (a *Adapter) StatObject(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to stat object %s/%s", bucket, key), err)
	}
	return &domain.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		SizeBytes:   info.Size,
		ContentType: info.ContentType,
		Metadata:    info.UserMetadata,
	}, nil
}

// GetObject retrieves an obj as a stream, callers may stop reading early and close it
func (a *Adapter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to get object %s/%s", bucket, key), err)
	}
	// minio opens lazily, stat surfaces missing keys before the first read
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		return nil, classify(fmt.Sprintf("failed to get object %s/%s", bucket, key), err)
	}
	return object, nil
}

// GetHeaderBytes reads the first n bytes of an object with a ranged request
func (a *Adapter) GetHeaderBytes(ctx context.Context, bucket, key string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	err := opts.SetRange(0, n-1)
	if err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	object, err := a.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, classify("failed to get partial object", err)
	}
	defer object.Close()

	buffer := make([]byte, n)
	numRead, err := io.ReadFull(object, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		if minio.ToErrorResponse(err).Code == "InvalidRange" {
			return []byte{}, nil
		}
		return nil, classify("failed to read header bytes", err)
	}

	return buffer[:numRead], nil
}

// PutObject writes an object, size may be -1 when unknown
func (a *Adapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error {
	_, err := a.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return classify(fmt.Sprintf("failed to put object %s/%s", bucket, key), err)
	}

	a.logger.Debug("object stored",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int64("size", size))

	return nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, bucket, key string) error {
	err := a.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return classify(fmt.Sprintf("failed to delete object %s/%s", bucket, key), err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", bucket))

	return nil
}

// ObjectURL returns the public url of an object
func (a *Adapter) ObjectURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", a.baseURL, bucket, url.PathEscape(key))
}

// classify maps minio errors onto the domain storage errors
func classify(msg string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NoSuchObject":
		return fmt.Errorf("%s: %w: %w", msg, domain.ErrObjectNotFound, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrStorageUnavailable, err)
}

func uniqueBuckets(buckets ...string) []string {
	seen := make(map[string]bool, len(buckets))
	result := make([]string, 0, len(buckets))
	for _, b := range buckets {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		result = append(result, b)
	}
	return result
}
