package transcoder

import (
	"context"
	"io"
	"lesson-media/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockTranscoder struct {
	mock.Mock
}

func (m *MockTranscoder) Convert(ctx context.Context, input io.Reader, onProgress domain.ProgressFunc) (*domain.ConvertedVideo, error) {
	args := m.Called(ctx, input, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConvertedVideo), args.Error(1)
}
