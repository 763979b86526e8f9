package upload

import (
	"context"
	"lesson-media/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) CreateLessonWithVideo(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error) {
	args := m.Called(ctx, bundle, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockUploadService) CreateLessonWithFiles(ctx context.Context, bundle domain.UploadBundle, onProgress domain.ProgressReporter) (*domain.UploadResult, error) {
	args := m.Called(ctx, bundle, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}
