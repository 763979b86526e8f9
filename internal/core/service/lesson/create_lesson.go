package lesson

import (
	"context"
	"fmt"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
)

// CreateLesson persists the lesson and its attachments from a completed upload in one transaction
func (l *lessonService) CreateLesson(ctx context.Context, result domain.UploadResult) (*domain.Lesson, error) {
	if result.Job.Stage != "" && result.Job.Stage != domain.StageComplete {
		return nil, fmt.Errorf("%w: upload is %s, not complete", domain.ErrValidation, result.Job.Stage)
	}

	lesson := domain.NewLessonFromUpload(l.newID(), result)

	err := l.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.LessonRepo().Create(ctx, lesson); err != nil {
			return err
		}
		if len(lesson.Attachments) == 0 {
			return nil
		}
		nb, err := uow.AttachmentRepo().CreateMany(ctx, lesson.Attachments)
		if err != nil {
			return err
		}
		if nb != len(lesson.Attachments) {
			return fmt.Errorf("stored %d attachments out of %d", nb, len(lesson.Attachments))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	l.logger.Info("lesson created",
		"lesson_id", lesson.ID,
		"module_id", lesson.ModuleID,
		"video_url", lesson.VideoURL,
		"attachments", len(lesson.Attachments))

	return &lesson, nil
}
