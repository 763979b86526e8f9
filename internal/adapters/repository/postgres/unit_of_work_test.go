package postgres_test

import (
	"context"
	"lesson-media/internal/adapters/repository/postgres"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	lessonRepo := postgres.NewSqlLessonRepository(dbConnection)

	t.Run("Should commit when no error", func(t *testing.T) {
		defer truncate()
		lesson := newLesson()

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			if err := u.LessonRepo().Create(ctx, lesson); err != nil {
				return err
			}
			_, err := u.AttachmentRepo().CreateMany(ctx, lesson.Attachments)
			return err
		})

		//assert
		require.NoError(t, err)
		found, err := lessonRepo.FindByID(ctx, lesson.ID)
		require.NoError(t, err)
		require.Equal(t, lesson.Title, found.Title)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		lesson := newLesson()

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.LessonRepo().Create(ctx, lesson)
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		_, err = lessonRepo.FindByID(ctx, lesson.ID)
		require.ErrorIs(t, err, domain.ErrLessonNotFound)
	})
}

func newLesson() domain.Lesson {
	id := uuid.New()
	return domain.Lesson{
		ID: id,
		LessonMetadata: domain.LessonMetadata{
			Title:      "Intro",
			ModuleID:   "module-1",
			Duration:   120,
			OrderIndex: 2,
			IsRequired: true,
		},
		VideoURL:     "http://storage.test/videos/lesson-module-1.avi",
		VideoSize:    1024,
		ThumbnailURL: "http://storage.test/assets/thumbnail-module-1.png",
		Attachments: []domain.LessonAttachment{
			{ID: uuid.New(), LessonID: id, Filename: "a.pdf", URL: "http://storage.test/assets/a.pdf", SizeBytes: 10, MimeType: "application/pdf"},
			{ID: uuid.New(), LessonID: id, Filename: "b.txt", URL: "http://storage.test/assets/b.txt", SizeBytes: 2, MimeType: "text/plain"},
		},
	}
}
