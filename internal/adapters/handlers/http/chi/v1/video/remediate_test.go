package video_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"testing"

	"lesson-media/internal/adapters/handlers/http/chi"
	"lesson-media/internal/adapters/handlers/http/chi/v1/video"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/service/remediation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(service *remediation.MockRemediationService) http2.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := video.NewVideoHandlerV1(service, "lesson-videos", discardLogger)
	return chi.NewRouter(discardLogger, nil, handler, config.ServerConfig{}, "")
}

func remediateRequest(t *testing.T, body video.V1RemediateRequest) *http2.Request {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http2.MethodPost, "/api/v1/video/remediate", bytes.NewReader(jsonBody))
}

func TestRemediateV1_Success(t *testing.T) {
	t.Run("fixed by url", func(t *testing.T) {
		// Arrange
		videoURL := "http://storage.test/lesson-videos/intro.avi"
		mockService := remediation.NewMockRemediationService()
		mockService.On("RemediateURL", mock.Anything, videoURL).
			Return(domain.Fixed("lesson-videos", "intro-fixed.mp4", "http://storage.test/lesson-videos/intro-fixed.mp4", 4096, domain.FormatReport{}))

		h := newRouter(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{VideoURL: videoURL}))

		// Assert
		assert.Equal(t, http2.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
		var resp domain.RemediationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.RemediationFixed, resp.Status)
		assert.Equal(t, "intro-fixed.mp4", resp.Key)
	})

	t.Run("already valid by key defaults to the video bucket", func(t *testing.T) {
		// Arrange
		mockService := remediation.NewMockRemediationService()
		mockService.On("Remediate", mock.Anything, "lesson-videos", "intro.mp4").
			Return(domain.AlreadyValid("lesson-videos", "intro.mp4", domain.FormatReport{}))

		h := newRouter(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{Key: "intro.mp4"}))

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("explicit video bucket", func(t *testing.T) {
		// Arrange
		mockService := remediation.NewMockRemediationService()
		mockService.On("Remediate", mock.Anything, "lesson-videos", "intro.mp4").
			Return(domain.AlreadyValid("lesson-videos", "intro.mp4", domain.FormatReport{}))

		h := newRouter(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{Bucket: "lesson-videos", Key: "intro.mp4"}))

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestRemediateV1_NotAccessible(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{"malformed url", fmt.Errorf("%w: no key in url", domain.ErrValidation), http2.StatusBadRequest},
		{"not found", domain.ErrObjectNotFound, http2.StatusNotFound},
		{"conversion failed", fmt.Errorf("%w: ffmpeg exited with status 1", domain.ErrConversion), http2.StatusUnprocessableEntity},
		{"storage unavailable", domain.ErrStorageUnavailable, http2.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockService := remediation.NewMockRemediationService()
			mockService.On("RemediateURL", mock.Anything, mock.Anything).
				Return(domain.NotAccessible("lesson-videos", "intro.avi", tt.cause))

			h := newRouter(mockService)
			w := httptest.NewRecorder()

			// Act
			h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{VideoURL: "http://storage.test/lesson-videos/intro.avi"}))

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			var resp domain.RemediationResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, domain.RemediationNotAccessible, resp.Status)
			assert.NotEmpty(t, resp.Reason)
		})
	}
}

func TestRemediateV1_BadRequest(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		// Arrange
		mockService := remediation.NewMockRemediationService()
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodPost, "/api/v1/video/remediate", bytes.NewReader([]byte("{")))

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
	})

	t.Run("bucket other than the video bucket", func(t *testing.T) {
		// Arrange
		mockService := remediation.NewMockRemediationService()
		h := newRouter(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{Bucket: "lesson-assets", Key: "notes.pdf"}))

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Remediate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no video reference", func(t *testing.T) {
		// Arrange
		mockService := remediation.NewMockRemediationService()
		h := newRouter(mockService)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, remediateRequest(t, video.V1RemediateRequest{Bucket: "lesson-videos"}))

		// Assert
		assert.Equal(t, http2.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Remediate", mock.Anything, mock.Anything, mock.Anything)
	})
}
