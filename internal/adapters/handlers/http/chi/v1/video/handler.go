package video

import (
	"lesson-media/internal/core/port"
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 video routes
type HandlerV1 struct {
	remediationService port.RemediationService
	videoBucket        string
	logger             *slog.Logger
}

// NewVideoHandlerV1 creates HandlerV1
func NewVideoHandlerV1(service port.RemediationService, videoBucket string, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		remediationService: service,
		videoBucket:        videoBucket,
		logger:             logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/remediate", h.RemediateV1)

	return router
}
