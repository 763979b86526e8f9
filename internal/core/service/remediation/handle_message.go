package remediation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"log/slog"
	"net/url"
	"strings"
)

type messageHandler struct {
	service     port.RemediationService
	videoBucket string
	logger      *slog.Logger
}

// NewMessageHandler creates the handler of remediation jobs and video bucket notifications
func NewMessageHandler(service port.RemediationService, videoBucket string, logger *slog.Logger) port.MessageService {
	return &messageHandler{
		service:     service,
		videoBucket: videoBucket,
		logger:      logger,
	}
}

// HandleMessage remediates the videos referenced by a message.
// Only storage outages are returned as errors so the message is redelivered,
// missing objects and failed conversions would fail the same way again.
func (h *messageHandler) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.MinIOEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal remediation message: %w", err)
	}
	if len(event.Records) > 0 {
		return h.handleEvent(ctx, event)
	}

	var req domain.RemediationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("could not unmarshal remediation request: %w", err)
	}

	switch {
	case req.VideoURL != "":
		return h.retryable(h.service.RemediateURL(ctx, req.VideoURL))
	case req.Key != "":
		bucket := req.Bucket
		if bucket == "" {
			bucket = h.videoBucket
		}
		return h.retryable(h.service.Remediate(ctx, bucket, req.Key))
	default:
		h.logger.Warn("dropping remediation message without video reference", "payload", string(data))
		return nil
	}
}

func (h *messageHandler) handleEvent(ctx context.Context, event domain.MinIOEvent) error {
	var errs []error
	for _, record := range event.Records {
		if !domain.IsObjectCreated(record.EventName) {
			continue
		}
		bucket := record.S3.Bucket.Name
		if bucket != h.videoBucket {
			continue
		}

		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			h.logger.Warn("dropping record with malformed key", "key", record.S3.Object.Key, "error", err)
			continue
		}
		// written by a previous remediation
		if strings.HasSuffix(key, fixedSuffix+".mp4") {
			continue
		}

		h.logger.Info("handling event", "eventtype", record.EventName, "bucket", bucket, "key", key)
		if err := h.retryable(h.service.Remediate(ctx, bucket, key)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// retryable returns an error only for results worth redelivering
func (h *messageHandler) retryable(result domain.RemediationResult) error {
	if result.Status != domain.RemediationNotAccessible {
		return nil
	}
	if errors.Is(result.Cause, domain.ErrStorageUnavailable) ||
		errors.Is(result.Cause, context.DeadlineExceeded) ||
		errors.Is(result.Cause, context.Canceled) {
		return fmt.Errorf("remediation of %s/%s failed: %w", result.Bucket, result.Key, result.Cause)
	}
	return nil
}
