package remediation

import (
	"lesson-media/internal/config"
	"lesson-media/internal/core/port"
	"log/slog"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// fixedSuffix is inserted before the extension of a remediated key
const fixedSuffix = "-fixed"

type remediationService struct {
	store      port.ObjectStore
	transcoder port.Transcoder
	lessons    port.LessonService
	cfg        config.RemediationConfig
	logger     *slog.Logger
	inflight   singleflight.Group
	now        func() time.Time
}

// NewRemediationService creates a new remediation service.
// lessons may be nil, otherwise lesson records pointing at a fixed video are repointed to the new object.
func NewRemediationService(store port.ObjectStore, transcoder port.Transcoder, lessons port.LessonService, cfg config.RemediationConfig, logger *slog.Logger) port.RemediationService {
	return &remediationService{
		store:      store,
		transcoder: transcoder,
		lessons:    lessons,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// DerivedKey returns the key a remediated video is written to: "-fixed" before the extension, forced to .mp4.
// DerivedKey("lesson-1.avi") == "lesson-1-fixed.mp4"
func DerivedKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + fixedSuffix + ".mp4"
}

// metadataValue looks a user metadata entry up, minio canonicalizes the header names
func metadataValue(metadata map[string]string, name string) string {
	for k, v := range metadata {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
