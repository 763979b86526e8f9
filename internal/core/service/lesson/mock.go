package lesson

import (
	"context"
	"lesson-media/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLessonService is a mock implementation of LessonService
type MockLessonService struct {
	mock.Mock
}

// NewMockLessonService creates a new MockLessonService
func NewMockLessonService() *MockLessonService {
	return &MockLessonService{}
}

func (m *MockLessonService) CreateLesson(ctx context.Context, result domain.UploadResult) (*domain.Lesson, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonService) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonService) ReplaceVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error) {
	args := m.Called(ctx, oldURL, newURL, sizeBytes)
	return args.Int(0), args.Error(1)
}
