package lesson

import (
	"errors"
	"fmt"
	"lesson-media/internal/core/domain"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// multipart field names
const (
	fieldVideo       = "video"
	fieldThumbnail   = "thumbnail"
	fieldAttachments = "attachments"
)

// parsedForm is an upload bundle backed by multipart files. Close releases them.
type parsedForm struct {
	bundle domain.UploadBundle
	files  []multipart.File
	form   *multipart.Form
}

func (p *parsedForm) Close() {
	for _, f := range p.files {
		_ = f.Close()
	}
	if p.form != nil {
		_ = p.form.RemoveAll()
	}
}

func (h *HandlerV1) parseForm(r *http.Request, mode domain.UploadMode) (*parsedForm, error) {
	if err := r.ParseMultipartForm(h.multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", domain.ErrValidation, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: invalid multipart form: %v", domain.ErrValidation, err)
	}

	parsed := &parsedForm{form: r.MultipartForm}
	lesson, err := lessonMetadata(r.MultipartForm)
	if err != nil {
		parsed.Close()
		return nil, err
	}
	parsed.bundle = domain.UploadBundle{Mode: mode, Lesson: lesson}

	if parsed.bundle.Video, err = parsed.single(fieldVideo); err != nil {
		parsed.Close()
		return nil, err
	}
	if parsed.bundle.Thumbnail, err = parsed.single(fieldThumbnail); err != nil {
		parsed.Close()
		return nil, err
	}
	for _, header := range r.MultipartForm.File[fieldAttachments] {
		file, err := parsed.open(header)
		if err != nil {
			parsed.Close()
			return nil, err
		}
		parsed.bundle.Attachments = append(parsed.bundle.Attachments, *file)
	}

	return parsed, nil
}

func (p *parsedForm) single(field string) (*domain.UploadFile, error) {
	headers := p.form.File[field]
	switch len(headers) {
	case 0:
		return nil, nil
	case 1:
		return p.open(headers[0])
	default:
		return nil, fmt.Errorf("%w: only one %s is allowed", domain.ErrValidation, field)
	}
}

func (p *parsedForm) open(header *multipart.FileHeader) (*domain.UploadFile, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %q: %v", domain.ErrValidation, header.Filename, err)
	}
	p.files = append(p.files, file)

	return &domain.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Content:     file,
	}, nil
}

func lessonMetadata(form *multipart.Form) (domain.LessonMetadata, error) {
	value := func(name string) string {
		if v := form.Value[name]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	lesson := domain.LessonMetadata{
		Title:       value("title"),
		Description: value("description"),
		ModuleID:    value("moduleId"),
		ContentType: value("contentType"),
	}

	var err error
	if lesson.Duration, err = intValue("duration", value("duration")); err != nil {
		return lesson, err
	}
	if lesson.OrderIndex, err = intValue("orderIndex", value("orderIndex")); err != nil {
		return lesson, err
	}
	if lesson.IsRequired, err = boolValue("isRequired", value("isRequired")); err != nil {
		return lesson, err
	}
	if lesson.IsPreview, err = boolValue("isPreview", value("isPreview")); err != nil {
		return lesson, err
	}

	return lesson, nil
}

func intValue(name, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, name)
	}
	return v, nil
}

func boolValue(name, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrValidation, name)
	}
	return v, nil
}
