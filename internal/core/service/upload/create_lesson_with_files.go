package upload

import (
	"context"
	"lesson-media/internal/core/domain"
)

// CreateLessonWithFiles stores an optional video with an optional thumbnail and attachments
func (u *uploadService) CreateLessonWithFiles(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error) {
	bundle.Mode = domain.UploadModeMultiFile
	return u.run(ctx, bundle, onProgress)
}
