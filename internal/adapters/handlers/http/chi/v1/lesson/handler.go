package lesson

import (
	"lesson-media/internal/core/port"
	"log/slog"

	"github.com/go-chi/chi/v5"
)

const defaultMultipartMemory = 32 << 20

// HandlerV1 is the handler for v1 lesson routes
type HandlerV1 struct {
	uploadService   port.UploadService
	lessonService   port.LessonService
	multipartMemory int64
	logger          *slog.Logger
}

// NewLessonHandlerV1 creates HandlerV1.
// lessonService may be nil, uploads are then returned without being persisted as lessons.
func NewLessonHandlerV1(uploadService port.UploadService, lessonService port.LessonService, multipartMemory int64, logger *slog.Logger) *HandlerV1 {
	if multipartMemory <= 0 {
		multipartMemory = defaultMultipartMemory
	}
	return &HandlerV1{
		uploadService:   uploadService,
		lessonService:   lessonService,
		multipartMemory: multipartMemory,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.CreateLessonWithVideoV1)
	router.Post("/files", h.CreateLessonWithFilesV1)
	router.Get("/{lessonID}", h.GetLessonV1)

	return router
}
