package domain

import (
	"fmt"
	"io"
)

// UploadMode tells which creation path an upload bundle goes through
type UploadMode string

const (
	UploadModeSingleVideo UploadMode = "single_video"
	UploadModeMultiFile   UploadMode = "multi_file"
)

// LessonMetadata holds the lesson fields sent along with the files.
// They are opaque to the pipeline and handed back to the lesson-record collaborator.
type LessonMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ModuleID    string `json:"moduleId"`
	ContentType string `json:"contentType"`
	Duration    int    `json:"duration"`
	OrderIndex  int    `json:"orderIndex"`
	IsRequired  bool   `json:"isRequired"`
	IsPreview   bool   `json:"isPreview"`
}

// UploadFile is one file of an upload request
type UploadFile struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Content     io.ReadSeeker
}

// Empty reports whether the file carries no bytes
func (f *UploadFile) Empty() bool {
	return f == nil || f.Content == nil || f.SizeBytes <= 0
}

// UploadBundle is the payload of a lesson creation request
type UploadBundle struct {
	Mode        UploadMode
	Lesson      LessonMetadata
	Video       *UploadFile
	Thumbnail   *UploadFile
	Attachments []UploadFile
}

// Validate checks the structural invariants of the bundle.
// Size and type limits are configuration and are checked by the upload service.
func (b UploadBundle) Validate() error {
	if b.Lesson.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if b.Lesson.ModuleID == "" {
		return fmt.Errorf("%w: moduleId is required", ErrValidation)
	}

	switch b.Mode {
	case UploadModeSingleVideo:
		if b.Video.Empty() {
			return fmt.Errorf("%w: a non-empty video is required", ErrValidation)
		}
	case UploadModeMultiFile:
		if b.Video.Empty() && b.Thumbnail.Empty() && len(b.Attachments) == 0 {
			return fmt.Errorf("%w: at least one of video, thumbnail or attachments is required", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown upload mode %q", ErrValidation, b.Mode)
	}

	for i := range b.Attachments {
		if b.Attachments[i].Empty() {
			return fmt.Errorf("%w: attachment %q is empty", ErrValidation, b.Attachments[i].Filename)
		}
	}

	return nil
}

// UploadResult is returned once an upload reached the complete stage
type UploadResult struct {
	Lesson            LessonMetadata `json:"lesson"`
	Video             *VideoAsset    `json:"video,omitempty"`
	Thumbnail         *StoredAsset   `json:"thumbnail,omitempty"`
	Attachments       []StoredAsset  `json:"attachments"`
	Converted         bool           `json:"converted"`
	ConversionWarning string         `json:"conversionWarning,omitempty"`
	Format            *FormatReport  `json:"format,omitempty"`
	Job               ConversionJob  `json:"job"`
}

// VideoURL returns the url of the stored video, empty when the bundle had none
func (r *UploadResult) VideoURL() string {
	if r.Video == nil {
		return ""
	}
	return r.Video.URL
}

// ThumbnailURL returns the url of the stored thumbnail, empty when the bundle had none
func (r *UploadResult) ThumbnailURL() string {
	if r.Thumbnail == nil {
		return ""
	}
	return r.Thumbnail.URL
}
