package video

import (
	"encoding/json"
	"lesson-media/internal/adapters/handlers/http/chi/v1/response"
	"lesson-media/internal/core/domain"
	"net/http"
)

// V1RemediateRequest references the stored video to check, either by url or by key.
// Bucket is optional and must name the video bucket when set.
type V1RemediateRequest struct {
	VideoURL string `json:"video_url"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
}

// RemediateV1 checks a stored video and writes a browser-safe copy when needed.
// A fixed video answers 201, an already valid one 200.
func (h *HandlerV1) RemediateV1(w http.ResponseWriter, r *http.Request) {
	var req V1RemediateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("error decoding remediate request", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var result domain.RemediationResult
	switch {
	case req.VideoURL != "":
		result = h.remediationService.RemediateURL(r.Context(), req.VideoURL)
	case req.Key != "":
		if req.Bucket != "" && req.Bucket != h.videoBucket {
			h.logger.Warn("remediation outside the video bucket rejected", "bucket", req.Bucket, "key", req.Key)
			http.Error(w, "only the video bucket can be remediated", http.StatusBadRequest)
			return
		}
		result = h.remediationService.Remediate(r.Context(), h.videoBucket, req.Key)
	default:
		http.Error(w, "video_url or key is required", http.StatusBadRequest)
		return
	}

	switch result.Status {
	case domain.RemediationFixed:
		response.JSON(w, h.logger, http.StatusCreated, result)
	case domain.RemediationAlreadyValid:
		response.JSON(w, h.logger, http.StatusOK, result)
	default:
		status := response.StatusFor(result.Cause)
		if status == response.StatusClientClosedRequest {
			h.logger.Info("remediation cancelled", "bucket", result.Bucket, "key", result.Key)
			return
		}
		h.logger.Warn("video not remediated", "bucket", result.Bucket, "key", result.Key, "status", status, "reason", result.Reason)
		response.JSON(w, h.logger, status, result)
	}
}
