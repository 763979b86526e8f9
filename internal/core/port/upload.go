package port

import (
	"context"
	"lesson-media/internal/core/domain"
)

// UploadService drives a lesson upload through validation, conversion and storage
type UploadService interface {
	CreateLessonWithVideo(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error)
	CreateLessonWithFiles(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error)
}
