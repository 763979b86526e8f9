// Package response holds the helpers shared by the v1 handlers to map domain errors and write bodies.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"lesson-media/internal/core/domain"
	"log/slog"
	"net/http"
)

// StatusClientClosedRequest is logged when the client went away before the response
const StatusClientClosedRequest = 499

// StatusFor maps a domain error to its http status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrObjectNotFound), errors.Is(err, domain.ErrLessonNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConversion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// Message is the error text sent to clients, internal errors are not exposed
func Message(status int, err error) string {
	if status == http.StatusServiceUnavailable {
		return "service unavailable"
	}
	return err.Error()
}

// Error logs err and writes the mapped status
func Error(w http.ResponseWriter, logger *slog.Logger, msg string, err error) int {
	status := StatusFor(err)
	switch {
	case status == StatusClientClosedRequest:
		logger.Info(msg, "status", status, "error", err)
		return status
	case status >= http.StatusInternalServerError:
		logger.Error(msg, "status", status, "error", err)
	default:
		logger.Warn(msg, "status", status, "error", err)
	}
	http.Error(w, Message(status, err), status)
	return status
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error encoding response", "error", err)
	}
}
