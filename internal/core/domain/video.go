package domain

import "io"

// MimeTypeMP4 is the content type of every converted video
const MimeTypeMP4 = "video/mp4"

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Bucket      string
	Key         string
	SizeBytes   int64
	ContentType string
	Metadata    map[string]string
}

// VideoAsset identifies a stored lesson video. Originals are never rewritten: remediation produces a new asset.
type VideoAsset struct {
	ModuleID  string `json:"moduleId"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

// StoredAsset is a thumbnail or attachment written next to a lesson video
type StoredAsset struct {
	Filename  string `json:"filename"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

// ConvertedVideo is the complete output of a conversion.
// Closing it releases the resources backing the bytes (temp files).
type ConvertedVideo struct {
	Reader      io.ReadCloser
	SizeBytes   int64
	ContentType string
}

// Close releases the converted bytes
func (c *ConvertedVideo) Close() error {
	if c == nil || c.Reader == nil {
		return nil
	}
	return c.Reader.Close()
}
