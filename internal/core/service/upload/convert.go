package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/service/format"
	"lesson-media/internal/metrics"
	"time"
)

// preparedVideo holds the bytes that will be stored for the lesson video
type preparedVideo struct {
	reader      io.Reader
	sizeBytes   int64
	contentType string
	ext         string
	converted   bool
	warning     string
	report      domain.FormatReport
	release     func()
}

func (p *preparedVideo) close() {
	if p != nil && p.release != nil {
		p.release()
	}
}

// prepareVideo sniffs the video and converts it when it is not browser-safe.
// A failed conversion falls back to the original bytes, only a cancelled ctx is fatal.
func (u *uploadService) prepareVideo(ctx context.Context, job *domain.ConversionJob, file domain.UploadFile, progress *tracker) (*preparedVideo, error) {
	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to rewind video: %w", domain.ErrValidation, err)
	}
	report, _, err := format.ClassifyReader(io.LimitReader(file.Content, u.sniffBytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read video header: %w", domain.ErrValidation, err)
	}
	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to rewind video: %w", domain.ErrValidation, err)
	}
	metrics.ObserveFormat(report)

	original := &preparedVideo{
		reader:      file.Content,
		sizeBytes:   file.SizeBytes,
		contentType: contentTypeOf(file),
		ext:         extension(file.Filename, file.ContentType),
		report:      report,
	}

	if !report.NeedsFix {
		metrics.ObserveConversion(callerUpload, metrics.OutcomeSkipped, 0)
		return original, nil
	}

	if err := job.Advance(domain.StageConverting); err != nil {
		return nil, err
	}
	progress.report(domain.ProgressConversion, validationEnd, "converting video to mp4")

	u.logger.Info("converting video",
		"filename", file.Filename,
		"container", report.Container,
		"brand", report.Brand,
		"size", file.SizeBytes)

	start := time.Now()
	converted, err := u.transcoder.Convert(ctx, file.Content, progress.conversion)
	if err != nil {
		if ctx.Err() != nil {
			metrics.ObserveConversion(callerUpload, metrics.OutcomeFailure, time.Since(start))
			return nil, ctx.Err()
		}
		if !errors.Is(err, domain.ErrConversion) {
			err = fmt.Errorf("%w: %w", domain.ErrConversion, err)
		}
		metrics.ObserveConversion(callerUpload, metrics.OutcomeFallback, time.Since(start))
		u.logger.Warn("conversion failed, storing original video",
			"filename", file.Filename,
			"error", err)

		if _, seekErr := file.Content.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("%w: failed to rewind video: %w", domain.ErrValidation, seekErr)
		}
		original.warning = err.Error()
		progress.report(domain.ProgressConversion, conversionEnd, "conversion failed, uploading original video")
		return original, nil
	}

	metrics.ObserveConversion(callerUpload, metrics.OutcomeSuccess, time.Since(start))
	progress.report(domain.ProgressConversion, conversionEnd, "video converted")

	return &preparedVideo{
		reader:      converted.Reader,
		sizeBytes:   converted.SizeBytes,
		contentType: domain.MimeTypeMP4,
		ext:         ".mp4",
		converted:   true,
		report:      report,
		release: func() {
			if err := converted.Close(); err != nil {
				u.logger.Warn("failed to release converted video", "error", err)
			}
		},
	}, nil
}

func (u *uploadService) sniffBytes() int64 {
	if u.cfg.SniffBytes > 0 {
		return u.cfg.SniffBytes
	}
	return format.HeaderSize
}
