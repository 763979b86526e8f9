package upload

import (
	"context"
	"fmt"
	"io"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/metrics"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// concurrent puts of one upload
	maxParallelPuts = 4

	rollbackTimeout = 30 * time.Second
)

// written tracks the objects stored by one run so they can be removed when a later put fails
type written struct {
	mu   sync.Mutex
	refs []domain.StoredAsset
}

func (w *written) add(asset domain.StoredAsset) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refs = append(w.refs, asset)
}

// storeFiles writes the video, thumbnail and attachments. It runs only once conversion ended.
func (u *uploadService) storeFiles(ctx context.Context, bundle domain.UploadBundle, video *preparedVideo, progress *tracker) (*domain.UploadResult, error) {
	result := &domain.UploadResult{
		Lesson:      bundle.Lesson,
		Attachments: make([]domain.StoredAsset, len(bundle.Attachments)),
	}

	counter := &byteCounter{tracker: progress}
	if video != nil {
		counter.total += video.sizeBytes
	}
	if bundle.Thumbnail != nil {
		counter.total += bundle.Thumbnail.SizeBytes
	}
	for _, a := range bundle.Attachments {
		counter.total += a.SizeBytes
	}

	progress.report(domain.ProgressUpload, conversionEnd, "uploading files")

	stored := &written{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPuts)

	if video != nil {
		filename := bundle.Video.Filename
		g.Go(func() error {
			key := u.objectKey("lesson", bundle.Lesson.ModuleID, video.ext)
			metadata := map[string]string{
				"original-filename": filename,
				"module-id":         bundle.Lesson.ModuleID,
				"converted":         fmt.Sprintf("%t", video.converted),
			}
			asset, err := u.put(gctx, u.cfg.VideoBucket, key, filename, video.reader, video.sizeBytes, video.contentType, metadata, kindVideo, counter)
			if err != nil {
				return err
			}
			stored.add(*asset)
			result.Video = &domain.VideoAsset{
				ModuleID:  bundle.Lesson.ModuleID,
				Bucket:    asset.Bucket,
				Key:       asset.Key,
				URL:       asset.URL,
				SizeBytes: asset.SizeBytes,
				MimeType:  asset.MimeType,
			}
			return nil
		})
	}

	if bundle.Thumbnail != nil {
		thumbnail := *bundle.Thumbnail
		g.Go(func() error {
			asset, err := u.putFile(gctx, thumbnail, kindThumbnail, bundle.Lesson.ModuleID, counter)
			if err != nil {
				return err
			}
			stored.add(*asset)
			result.Thumbnail = asset
			return nil
		})
	}

	for i, attachment := range bundle.Attachments {
		i, attachment := i, attachment
		g.Go(func() error {
			asset, err := u.putFile(gctx, attachment, kindAttachment, bundle.Lesson.ModuleID, counter)
			if err != nil {
				return err
			}
			stored.add(*asset)
			result.Attachments[i] = *asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.rollback(ctx, stored)
		return nil, err
	}

	return result, nil
}

func (u *uploadService) putFile(ctx context.Context, file domain.UploadFile, kind, moduleID string, counter *byteCounter) (*domain.StoredAsset, error) {
	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to rewind %s: %w", domain.ErrValidation, file.Filename, err)
	}
	key := u.objectKey(kind, moduleID, extension(file.Filename, file.ContentType))
	metadata := map[string]string{
		"original-filename": file.Filename,
		"module-id":         moduleID,
	}
	return u.put(ctx, u.cfg.AssetBucket, key, file.Filename, file.Content, file.SizeBytes, contentTypeOf(file), metadata, kind, counter)
}

func (u *uploadService) put(ctx context.Context, bucket, key, filename string, r io.Reader, size int64, contentType string, metadata map[string]string, kind string, counter *byteCounter) (*domain.StoredAsset, error) {
	err := u.store.PutObject(ctx, bucket, key, &countingReader{r: r, counter: counter}, size, contentType, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s %q: %w", kind, filename, err)
	}
	metrics.UploadedBytesTotal.WithLabelValues(kind).Add(float64(size))

	u.logger.Info("file stored",
		"kind", kind,
		"bucket", bucket,
		"key", key,
		"size", size)

	return &domain.StoredAsset{
		Filename:  filename,
		Bucket:    bucket,
		Key:       key,
		URL:       u.store.ObjectURL(bucket, key),
		SizeBytes: size,
		MimeType:  contentType,
	}, nil
}

// rollback deletes what this run stored, best effort.
// Objects of an interrupted put are left to the storage garbage collection.
func (u *uploadService) rollback(ctx context.Context, stored *written) {
	stored.mu.Lock()
	refs := append([]domain.StoredAsset(nil), stored.refs...)
	stored.mu.Unlock()

	if len(refs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	for _, ref := range refs {
		if err := u.store.DeleteObject(ctx, ref.Bucket, ref.Key); err != nil {
			u.logger.Warn("failed to delete object after failed upload",
				"bucket", ref.Bucket,
				"key", ref.Key,
				"error", err)
			continue
		}
		u.logger.Info("object removed after failed upload", "bucket", ref.Bucket, "key", ref.Key)
	}
}
