package upload

import (
	"fmt"
	"lesson-media/internal/core/domain"
	"strings"
)

// validate checks the bundle against the configured limits, nothing is written before it passes
func (u *uploadService) validate(bundle domain.UploadBundle) error {
	if err := bundle.Validate(); err != nil {
		return err
	}

	if bundle.Mode == domain.UploadModeSingleVideo && (bundle.Thumbnail != nil || len(bundle.Attachments) > 0) {
		return fmt.Errorf("%w: thumbnail and attachments require the multi-file path", domain.ErrValidation)
	}

	if !bundle.Video.Empty() {
		if err := checkSize(*bundle.Video, u.cfg.MaxVideoSize); err != nil {
			return err
		}
		mimeType := extractMimeType(bundle.Video.ContentType)
		// octet-stream is accepted, the sniffer decides what the bytes are
		if !strings.HasPrefix(mimeType, "video/") && mimeType != "application/octet-stream" {
			return fmt.Errorf("%w: video %q has content type %q", domain.ErrValidation, bundle.Video.Filename, bundle.Video.ContentType)
		}
	}

	if bundle.Thumbnail != nil {
		if bundle.Thumbnail.Empty() {
			return fmt.Errorf("%w: thumbnail %q is empty", domain.ErrValidation, bundle.Thumbnail.Filename)
		}
		if err := checkSize(*bundle.Thumbnail, u.cfg.MaxThumbnailSize); err != nil {
			return err
		}
		if !strings.HasPrefix(contentTypeOf(*bundle.Thumbnail), "image/") {
			return fmt.Errorf("%w: thumbnail %q must be an image", domain.ErrValidation, bundle.Thumbnail.Filename)
		}
	}

	if u.cfg.MaxAttachments > 0 && len(bundle.Attachments) > u.cfg.MaxAttachments {
		return fmt.Errorf("%w: %d attachments, at most %d allowed", domain.ErrValidation, len(bundle.Attachments), u.cfg.MaxAttachments)
	}
	for _, attachment := range bundle.Attachments {
		if err := checkSize(attachment, u.cfg.MaxAttachmentSize); err != nil {
			return err
		}
	}

	return nil
}

func checkSize(file domain.UploadFile, limit int64) error {
	if limit > 0 && file.SizeBytes > limit {
		return fmt.Errorf("%w: %q is %d bytes, limit is %d", domain.ErrValidation, file.Filename, file.SizeBytes, limit)
	}
	return nil
}
