package remediation

import (
	"context"
	"fmt"
	"lesson-media/internal/core/domain"
	"net/url"
	"strings"
)

// RemediateURL remediates the video behind a previously issued url.
// The key is the last path segment, the bucket is the video bucket.
func (r *remediationService) RemediateURL(ctx context.Context, videoURL string) domain.RemediationResult {
	key, err := KeyFromURL(videoURL)
	if err != nil {
		return r.finish(domain.NotAccessible(r.cfg.VideoBucket, "", err))
	}
	return r.Remediate(ctx, r.cfg.VideoBucket, key)
}

// KeyFromURL returns the unescaped last path segment of a video url
func KeyFromURL(videoURL string) (string, error) {
	if strings.TrimSpace(videoURL) == "" {
		return "", fmt.Errorf("%w: video url is required", domain.ErrValidation)
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed video url: %w", domain.ErrValidation, err)
	}

	p := strings.TrimRight(u.EscapedPath(), "/")
	segment := p[strings.LastIndex(p, "/")+1:]
	if segment == "" {
		return "", fmt.Errorf("%w: video url %q has no object key", domain.ErrValidation, videoURL)
	}

	key, err := url.PathUnescape(segment)
	if err != nil {
		return "", fmt.Errorf("%w: malformed object key %q: %w", domain.ErrValidation, segment, err)
	}
	return key, nil
}
