package port

import (
	"context"
	"lesson-media/internal/core/domain"

	"github.com/google/uuid"
)

// LessonRepository is an interface to define lesson repository interactions
type LessonRepository interface {
	Create(ctx context.Context, lesson domain.Lesson) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	UpdateVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error)
}

// AttachmentRepository is an interface to define lesson attachment repository interactions
type AttachmentRepository interface {
	CreateMany(ctx context.Context, attachments []domain.LessonAttachment) (int, error)
	FindByLessonID(ctx context.Context, lessonID uuid.UUID) ([]domain.LessonAttachment, error)
}

// LessonService persists lessons produced by the upload pipeline
type LessonService interface {
	CreateLesson(ctx context.Context, result domain.UploadResult) (*domain.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ReplaceVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error)
}
