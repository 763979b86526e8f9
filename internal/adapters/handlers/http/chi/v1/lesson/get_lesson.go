package lesson

import (
	"lesson-media/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1LessonAttachment is an attachment of V1GetLessonResponse
type V1LessonAttachment struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
}

// V1GetLessonResponse is the response to get lesson
type V1GetLessonResponse struct {
	ID           uuid.UUID            `json:"id"`
	ModuleID     string               `json:"module_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ContentType  string               `json:"content_type"`
	Duration     int                  `json:"duration"`
	OrderIndex   int                  `json:"order_index"`
	IsRequired   bool                 `json:"is_required"`
	IsPreview    bool                 `json:"is_preview"`
	VideoURL     string               `json:"video_url,omitempty"`
	VideoSize    int64                `json:"video_size,omitempty"`
	ThumbnailURL string               `json:"thumbnail_url,omitempty"`
	Attachments  []V1LessonAttachment `json:"attachments"`
	CreatedAt    time.Time            `json:"created_at"`
}

// GetLessonV1 is the function that handles GetLesson
func (h *HandlerV1) GetLessonV1(w http.ResponseWriter, r *http.Request) {
	if h.lessonService == nil {
		http.Error(w, "lesson records are disabled", http.StatusNotImplemented)
		return
	}

	lessonID, parseErr := uuid.Parse(chi.URLParam(r, "lessonID"))
	if parseErr != nil {
		http.Error(w, parseErr.Error(), http.StatusBadRequest)
		return
	}

	lesson, err := h.lessonService.GetLesson(r.Context(), lessonID)
	if err != nil {
		response.Error(w, h.logger, "error getting lesson", err)
		return
	}

	resp := V1GetLessonResponse{
		ID:           lesson.ID,
		ModuleID:     lesson.ModuleID,
		Title:        lesson.Title,
		Description:  lesson.Description,
		ContentType:  lesson.ContentType,
		Duration:     lesson.Duration,
		OrderIndex:   lesson.OrderIndex,
		IsRequired:   lesson.IsRequired,
		IsPreview:    lesson.IsPreview,
		VideoURL:     lesson.VideoURL,
		VideoSize:    lesson.VideoSize,
		ThumbnailURL: lesson.ThumbnailURL,
		Attachments:  []V1LessonAttachment{},
		CreatedAt:    lesson.CreatedAt,
	}
	for _, a := range lesson.Attachments {
		resp.Attachments = append(resp.Attachments, V1LessonAttachment{
			Filename:  a.Filename,
			URL:       a.URL,
			SizeBytes: a.SizeBytes,
			MimeType:  a.MimeType,
		})
	}
	response.JSON(w, h.logger, http.StatusOK, resp)
}
