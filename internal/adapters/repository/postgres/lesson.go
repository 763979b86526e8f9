package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlLessonRepository struct {
	db SQLQuerier
}

// NewSqlLessonRepository creates sqlLessonRepository that implements port.LessonRepository
func NewSqlLessonRepository(db SQLQuerier) port.LessonRepository {
	return &sqlLessonRepository{
		db: db,
	}
}

// Create inserts a lesson, attachments are stored by the attachment repository
func (s *sqlLessonRepository) Create(ctx context.Context, lesson domain.Lesson) error {
	query := `
		INSERT INTO lessons (
			id, module_id, title, description, content_type, duration, order_index,
			is_required, is_preview, video_url, video_size, thumbnail_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		lesson.ID,
		lesson.ModuleID,
		lesson.Title,
		lesson.Description,
		lesson.ContentType,
		lesson.Duration,
		lesson.OrderIndex,
		lesson.IsRequired,
		lesson.IsPreview,
		lesson.VideoURL,
		lesson.VideoSize,
		lesson.ThumbnailURL,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: lesson %s already exists", domain.ErrValidation, lesson.ID)
		}
		return fmt.Errorf("error inserting lesson: %w", err)
	}
	return nil
}

// FindByID finds a lesson by id, without its attachments
func (s *sqlLessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, module_id, title, description, content_type, duration, order_index,
			is_required, is_preview, video_url, video_size, thumbnail_url, created_at, updated_at
		FROM lessons WHERE id = $1`

	var lessonDB dbLesson
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&lessonDB.ID,
		&lessonDB.ModuleID,
		&lessonDB.Title,
		&lessonDB.Description,
		&lessonDB.ContentType,
		&lessonDB.Duration,
		&lessonDB.OrderIndex,
		&lessonDB.IsRequired,
		&lessonDB.IsPreview,
		&lessonDB.VideoURL,
		&lessonDB.VideoSize,
		&lessonDB.ThumbnailURL,
		&lessonDB.CreatedAt,
		&lessonDB.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, id)
		}
		return nil, err
	}

	return lessonDB.ToDomain(), nil
}

// UpdateVideoURL repoints every lesson using oldURL to newURL and returns the number of updated lessons
func (s *sqlLessonRepository) UpdateVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error) {
	query := `UPDATE lessons SET video_url = $1, video_size = $2, updated_at = NOW() WHERE video_url = $3`

	result, err := s.db.ExecContext(ctx, query, newURL, sizeBytes, oldURL)
	if err != nil {
		return 0, fmt.Errorf("error updating lesson video url: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// dbLesson represents a lesson in DB
type dbLesson struct {
	ID           uuid.UUID `db:"id"`
	ModuleID     string    `db:"module_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	ContentType  string    `db:"content_type"`
	Duration     int       `db:"duration"`
	OrderIndex   int       `db:"order_index"`
	IsRequired   bool      `db:"is_required"`
	IsPreview    bool      `db:"is_preview"`
	VideoURL     string    `db:"video_url"`
	VideoSize    int64     `db:"video_size"`
	ThumbnailURL string    `db:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToDomain converts to domain.Lesson
func (l *dbLesson) ToDomain() *domain.Lesson {
	return &domain.Lesson{
		ID: l.ID,
		LessonMetadata: domain.LessonMetadata{
			Title:       l.Title,
			Description: l.Description,
			ModuleID:    l.ModuleID,
			ContentType: l.ContentType,
			Duration:    l.Duration,
			OrderIndex:  l.OrderIndex,
			IsRequired:  l.IsRequired,
			IsPreview:   l.IsPreview,
		},
		VideoURL:     l.VideoURL,
		VideoSize:    l.VideoSize,
		ThumbnailURL: l.ThumbnailURL,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
