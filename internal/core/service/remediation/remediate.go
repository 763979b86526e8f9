package remediation

import (
	"context"
	"errors"
	"fmt"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/service/format"
	"lesson-media/internal/metrics"
	"time"
)

const callerRemediation = "remediation"

// Remediate checks a stored video and writes a browser-safe copy next to it when needed.
// Concurrent calls for the same object share one run.
func (r *remediationService) Remediate(ctx context.Context, bucket, key string) domain.RemediationResult {
	if bucket == "" || key == "" {
		return r.finish(domain.NotAccessible(bucket, key, fmt.Errorf("%w: bucket and key are required", domain.ErrValidation)))
	}

	// the shared run outlives any single caller, JobTimeout bounds it
	runCtx := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(bucket+"/"+key, func() (any, error) {
		return r.remediate(runCtx, bucket, key), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			r.logger.Debug("remediation shared with a concurrent run", "bucket", bucket, "key", key)
		}
		return r.finish(res.Val.(domain.RemediationResult))
	case <-ctx.Done():
		r.logger.Info("caller left before remediation finished", "bucket", bucket, "key", key, "error", ctx.Err())
		return domain.NotAccessible(bucket, key, ctx.Err())
	}
}

func (r *remediationService) finish(result domain.RemediationResult) domain.RemediationResult {
	metrics.RemediationsTotal.WithLabelValues(string(result.Status)).Inc()

	switch result.Status {
	case domain.RemediationNotAccessible:
		r.logger.Warn("video not accessible",
			"bucket", result.Bucket,
			"key", result.Key,
			"reason", result.Reason)
	default:
		r.logger.Info("remediation finished",
			"status", result.Status,
			"bucket", result.Bucket,
			"key", result.Key)
	}
	return result
}

func (r *remediationService) remediate(ctx context.Context, bucket, key string) domain.RemediationResult {
	if r.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.JobTimeout)
		defer cancel()
	}

	info, err := r.store.StatObject(ctx, bucket, key)
	if err != nil {
		return domain.NotAccessible(bucket, key, err)
	}

	header, err := r.store.GetHeaderBytes(ctx, bucket, key, format.HeaderSize)
	if err != nil {
		return domain.NotAccessible(bucket, key, err)
	}

	report := format.Classify(header)
	metrics.ObserveFormat(report)
	if report.Playable() {
		return domain.AlreadyValid(bucket, key, report)
	}

	r.logger.Info("remediating video",
		"bucket", bucket,
		"key", key,
		"container", report.Container,
		"brand", report.Brand,
		"size", info.SizeBytes)

	object, err := r.store.GetObject(ctx, bucket, key)
	if err != nil {
		return domain.NotAccessible(bucket, key, err)
	}
	defer object.Close()

	start := time.Now()
	converted, err := r.transcoder.Convert(ctx, object, nil)
	if err != nil {
		metrics.ObserveConversion(callerRemediation, metrics.OutcomeFailure, time.Since(start))
		if !errors.Is(err, domain.ErrConversion) {
			err = fmt.Errorf("%w: %w", domain.ErrConversion, err)
		}
		return domain.NotAccessible(bucket, key, err)
	}
	defer func() {
		if err := converted.Close(); err != nil {
			r.logger.Warn("failed to release converted video", "error", err)
		}
	}()
	metrics.ObserveConversion(callerRemediation, metrics.OutcomeSuccess, time.Since(start))

	originalFilename := metadataValue(info.Metadata, "original-filename")
	if originalFilename == "" {
		originalFilename = key
	}
	newKey := DerivedKey(key)
	metadata := map[string]string{
		"original-key":      key,
		"fixed-at":          r.now().UTC().Format(time.RFC3339),
		"original-filename": originalFilename,
	}

	// the converted bytes are complete at this point, a failed put never leaves a truncated object behind
	if err := r.store.PutObject(ctx, bucket, newKey, converted.Reader, converted.SizeBytes, domain.MimeTypeMP4, metadata); err != nil {
		return domain.NotAccessible(bucket, key, err)
	}
	metrics.UploadedBytesTotal.WithLabelValues("remediated").Add(float64(converted.SizeBytes))

	newURL := r.store.ObjectURL(bucket, newKey)
	r.repointLessons(ctx, r.store.ObjectURL(bucket, key), newURL, converted.SizeBytes)

	return domain.Fixed(bucket, newKey, newURL, converted.SizeBytes, report)
}

// repointLessons updates lesson records to the fixed video, best effort
func (r *remediationService) repointLessons(ctx context.Context, oldURL, newURL string, sizeBytes int64) {
	if r.lessons == nil {
		return
	}
	updated, err := r.lessons.ReplaceVideoURL(ctx, oldURL, newURL, sizeBytes)
	if err != nil {
		r.logger.Error("failed to repoint lessons to fixed video",
			"old_url", oldURL,
			"new_url", newURL,
			"error", err)
		return
	}
	if updated > 0 {
		r.logger.Info("lessons repointed to fixed video", "count", updated, "new_url", newURL)
	}
}
