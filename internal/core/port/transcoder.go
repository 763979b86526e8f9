package port

import (
	"context"
	"io"
	"lesson-media/internal/core/domain"
)

// Transcoder converts any video container into a browser-safe progressive mp4.
// Errors wrap domain.ErrConversion; onProgress may be nil.
type Transcoder interface {
	Convert(ctx context.Context, input io.Reader, onProgress domain.ProgressFunc) (*domain.ConvertedVideo, error)
}
