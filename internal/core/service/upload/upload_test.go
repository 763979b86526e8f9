package upload_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"lesson-media/internal/adapters/storage/memory"
	"lesson-media/internal/adapters/transcoder"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"lesson-media/internal/core/service/upload"
	"log/slog"
	"strings"
	"sync"
)

const (
	testVideoBucket = "videos"
	testAssetBucket = "assets"
	testBaseURL     = "http://storage.test"
)

var defaultCfg = config.UploadConfig{
	VideoBucket:       testVideoBucket,
	AssetBucket:       testAssetBucket,
	MaxVideoSize:      64 << 20,
	MaxThumbnailSize:  1 << 20,
	MaxAttachmentSize: 1 << 20,
	MaxAttachments:    3,
	SniffBytes:        2048,
}

func newService(store port.ObjectStore, tc *transcoder.MockTranscoder) port.UploadService {
	return upload.NewUploadService(store, tc, defaultCfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newStore() *memory.Store {
	return memory.NewStore(testBaseURL)
}

// mp4Bytes builds a payload starting with an ftyp box of the given brand
func mp4Bytes(brand string, size int) []byte {
	header := make([]byte, 8, size)
	binary.BigEndian.PutUint32(header[:4], 24)
	copy(header[4:], "ftyp")
	header = append(header, brand...)
	header = append(header, 0, 0, 2, 0)
	header = append(header, "isomiso2"...)
	return append(header, bytes.Repeat([]byte{0x42}, size-len(header))...)
}

// aviBytes builds a 500 byte RIFF/AVI payload
func aviBytes() []byte {
	b := []byte("RIFF\x00\x00\x00\x00AVI LIST")
	return append(b, bytes.Repeat([]byte("."), 500-len(b))...)
}

func videoFile(name, contentType string, data []byte) *domain.UploadFile {
	return &domain.UploadFile{
		Filename:    name,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Content:     bytes.NewReader(data),
	}
}

func lessonMetadata() domain.LessonMetadata {
	return domain.LessonMetadata{
		Title:       "Intro to fractions",
		Description: "First lesson",
		ModuleID:    "module-42",
		ContentType: "video",
		Duration:    300,
		OrderIndex:  1,
		IsRequired:  true,
	}
}

func converted(data []byte) *domain.ConvertedVideo {
	return &domain.ConvertedVideo{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		SizeBytes:   int64(len(data)),
		ContentType: domain.MimeTypeMP4,
	}
}

func keyOf(ref string) (bucket, key string) {
	bucket, key, _ = strings.Cut(ref, "/")
	return bucket, key
}

type progressLog struct {
	mu     sync.Mutex
	events []domain.Progress
}

func (p *progressLog) record(event domain.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *progressLog) snapshot() []domain.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Progress(nil), p.events...)
}
