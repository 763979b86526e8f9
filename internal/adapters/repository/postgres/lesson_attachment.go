package postgres

import (
	"context"
	"fmt"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"strings"

	"github.com/google/uuid"
)

type sqlAttachmentRepository struct {
	db SQLQuerier
}

// NewSqlAttachmentRepository creates sqlAttachmentRepository that implements port.AttachmentRepository
func NewSqlAttachmentRepository(db SQLQuerier) port.AttachmentRepository {
	return &sqlAttachmentRepository{db: db}
}

// CreateMany inserts attachments in a single statement
func (s *sqlAttachmentRepository) CreateMany(ctx context.Context, attachments []domain.LessonAttachment) (int, error) {
	if len(attachments) == 0 {
		return 0, nil
	}

	const columns = 6
	placeholders := make([]string, len(attachments))
	args := make([]interface{}, 0, len(attachments)*columns)
	for i, a := range attachments {
		base := i * columns
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, a.ID, a.LessonID, a.Filename, a.URL, a.SizeBytes, a.MimeType)
	}

	query := fmt.Sprintf(
		"INSERT INTO lesson_attachments (id, lesson_id, filename, url, size_bytes, mime_type) VALUES %s",
		strings.Join(placeholders, ", "),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting attachments: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// FindByLessonID returns the attachments of a lesson in insertion order
func (s *sqlAttachmentRepository) FindByLessonID(ctx context.Context, lessonID uuid.UUID) ([]domain.LessonAttachment, error) {
	query := `
		SELECT id, lesson_id, filename, url, size_bytes, mime_type
		FROM lesson_attachments
		WHERE lesson_id = $1
		ORDER BY created_at, filename`

	rows, err := s.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error querying attachments: %w", err)
	}
	defer rows.Close()

	var result []domain.LessonAttachment
	for rows.Next() {
		var a domain.LessonAttachment
		if err := rows.Scan(&a.ID, &a.LessonID, &a.Filename, &a.URL, &a.SizeBytes, &a.MimeType); err != nil {
			return nil, fmt.Errorf("error scanning attachment: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return result, nil
}
