package lesson

import (
	"context"
	"lesson-media/internal/adapters/handlers/http/chi/v1/response"
	"lesson-media/internal/core/domain"
	"net/http"

	"github.com/google/uuid"
)

// V1CreateLessonResponse is the response of both lesson creation routes
type V1CreateLessonResponse struct {
	LessonID *uuid.UUID           `json:"lesson_id,omitempty"`
	Upload   *domain.UploadResult `json:"upload"`
}

// CreateLessonWithVideoV1 handles the single video upload path
func (h *HandlerV1) CreateLessonWithVideoV1(w http.ResponseWriter, r *http.Request) {
	h.createLesson(w, r, domain.UploadModeSingleVideo)
}

// CreateLessonWithFilesV1 handles the video, thumbnail and attachments upload path
func (h *HandlerV1) CreateLessonWithFilesV1(w http.ResponseWriter, r *http.Request) {
	h.createLesson(w, r, domain.UploadModeMultiFile)
}

func (h *HandlerV1) createLesson(w http.ResponseWriter, r *http.Request, mode domain.UploadMode) {
	form, err := h.parseForm(r, mode)
	if err != nil {
		response.Error(w, h.logger, "invalid lesson upload", err)
		return
	}
	defer form.Close()

	var (
		events     *eventStream
		onProgress domain.ProgressReporter
	)
	if wantsEventStream(r) {
		if stream, ok := newEventStream(w, h.logger); ok {
			events = stream
			onProgress = events.progress
		}
	}

	resp, err := h.upload(r.Context(), form.bundle, onProgress)
	if err != nil {
		if events != nil {
			status := response.StatusFor(err)
			h.logger.Warn("lesson upload failed", "mode", mode, "status", status, "error", err)
			events.send(eventError, V1ErrorEvent{Status: status, Error: response.Message(status, err)})
			return
		}
		response.Error(w, h.logger, "lesson upload failed", err)
		return
	}

	if events != nil {
		events.send(eventResult, resp)
		return
	}
	response.JSON(w, h.logger, http.StatusCreated, resp)
}

func (h *HandlerV1) upload(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*V1CreateLessonResponse, error) {
	var (
		result *domain.UploadResult
		err    error
	)
	if bundle.Mode == domain.UploadModeSingleVideo {
		result, err = h.uploadService.CreateLessonWithVideo(ctx, bundle, onProgress)
	} else {
		result, err = h.uploadService.CreateLessonWithFiles(ctx, bundle, onProgress)
	}
	if err != nil {
		return nil, err
	}

	resp := &V1CreateLessonResponse{Upload: result}
	if h.lessonService == nil {
		return resp, nil
	}

	lesson, err := h.lessonService.CreateLesson(ctx, *result)
	if err != nil {
		h.logger.Error("files stored but lesson not created", "video_url", result.VideoURL(), "error", err)
		return nil, err
	}
	resp.LessonID = &lesson.ID
	return resp, nil
}
