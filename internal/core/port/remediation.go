package port

import (
	"context"
	"lesson-media/internal/core/domain"
)

// RemediationService re-checks stored videos and writes a fixed copy when they are not browser-safe
type RemediationService interface {
	Remediate(ctx context.Context, bucket, key string) domain.RemediationResult
	RemediateURL(ctx context.Context, videoURL string) domain.RemediationResult
}
