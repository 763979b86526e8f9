package lesson

import (
	"lesson-media/internal/core/port"
	"log/slog"

	"github.com/google/uuid"
)

type lessonService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
	newID  func() uuid.UUID
}

// NewLessonService creates a new lesson service
func NewLessonService(uow port.UnitOfWork, logger *slog.Logger) port.LessonService {
	return &lessonService{uow: uow, logger: logger, newID: uuid.New}
}
