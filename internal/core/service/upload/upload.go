package upload

import (
	"fmt"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	kindVideo      = "video"
	kindThumbnail  = "thumbnail"
	kindAttachment = "attachment"

	// conversion callers used as metric label
	callerUpload = "upload"
)

type uploadService struct {
	store      port.ObjectStore
	transcoder port.Transcoder
	cfg        config.UploadConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(store port.ObjectStore, transcoder port.Transcoder, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{
		store:      store,
		transcoder: transcoder,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// objectKey builds a flat, unique key: <kind>-<moduleId>-<unixMillis>-<uuid8><ext>.
// Keys never contain a slash so the last url segment is the key.
func (u *uploadService) objectKey(prefix, moduleID, ext string) string {
	return fmt.Sprintf("%s-%s-%d-%s%s",
		prefix,
		sanitize(moduleID),
		u.now().UnixMilli(),
		uuid.NewString()[:8],
		ext,
	)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// extension returns the lowercased extension of filename, guessed from the mime type when missing
func extension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && !strings.ContainsAny(ext, "/?#% ") {
		return ext
	}
	if exts, err := mime.ExtensionsByType(extractMimeType(contentType)); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}

// contentTypeOf returns the declared mime type, guessed from the extension when missing
func contentTypeOf(file domain.UploadFile) string {
	if mimeType := extractMimeType(file.ContentType); mimeType != "" {
		return mimeType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Filename))); byExt != "" {
		return extractMimeType(byExt)
	}
	return "application/octet-stream"
}
