package lesson

import (
	"context"
	"fmt"
	"lesson-media/internal/core/domain"
)

// ReplaceVideoURL points the lessons using oldURL at a remediated video
func (l *lessonService) ReplaceVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error) {
	if oldURL == "" || newURL == "" {
		return 0, fmt.Errorf("%w: both video urls are required", domain.ErrValidation)
	}
	if oldURL == newURL {
		return 0, nil
	}

	nb, err := l.uow.LessonRepo().UpdateVideoURL(ctx, oldURL, newURL, sizeBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to replace video url: %w", err)
	}
	return nb, nil
}
