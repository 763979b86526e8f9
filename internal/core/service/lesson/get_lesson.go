package lesson

import (
	"context"
	"lesson-media/internal/core/domain"

	"github.com/google/uuid"
)

// GetLesson retrieves a lesson with its attachments
func (l *lessonService) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	lesson, err := l.uow.LessonRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attachments, err := l.uow.AttachmentRepo().FindByLessonID(ctx, id)
	if err != nil {
		return nil, err
	}
	lesson.Attachments = attachments

	return lesson, nil
}
