package upload

import (
	"context"
	"lesson-media/internal/core/domain"
)

// CreateLessonWithVideo stores the lesson video, converted to mp4 when it is not browser-safe
func (u *uploadService) CreateLessonWithVideo(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error) {
	bundle.Mode = domain.UploadModeSingleVideo
	return u.run(ctx, bundle, onProgress)
}
