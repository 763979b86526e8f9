package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is the record persisted by the lesson collaborator once an upload completed
type Lesson struct {
	ID uuid.UUID
	LessonMetadata
	VideoURL     string
	VideoSize    int64
	ThumbnailURL string
	Attachments  []LessonAttachment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LessonAttachment is a file attached to a lesson
type LessonAttachment struct {
	ID        uuid.UUID
	LessonID  uuid.UUID
	Filename  string
	URL       string
	SizeBytes int64
	MimeType  string
}

// NewLessonFromUpload builds the lesson record from an upload result
func NewLessonFromUpload(id uuid.UUID, result UploadResult) Lesson {
	lesson := Lesson{
		ID:             id,
		LessonMetadata: result.Lesson,
		VideoURL:       result.VideoURL(),
		ThumbnailURL:   result.ThumbnailURL(),
	}
	if result.Video != nil {
		lesson.VideoSize = result.Video.SizeBytes
	}
	for _, a := range result.Attachments {
		lesson.Attachments = append(lesson.Attachments, LessonAttachment{
			ID:        uuid.New(),
			LessonID:  id,
			Filename:  a.Filename,
			URL:       a.URL,
			SizeBytes: a.SizeBytes,
			MimeType:  a.MimeType,
		})
	}
	return lesson
}
