package repository

import (
	"context"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLessonRepository struct {
	mock.Mock
}

func NewMockLessonRepository() *MockLessonRepository {
	return &MockLessonRepository{}
}

func (m *MockLessonRepository) Create(ctx context.Context, lesson domain.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) UpdateVideoURL(ctx context.Context, oldURL, newURL string, sizeBytes int64) (int, error) {
	args := m.Called(ctx, oldURL, newURL, sizeBytes)
	return args.Int(0), args.Error(1)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{}
}

func (m *MockAttachmentRepository) CreateMany(ctx context.Context, attachments []domain.LessonAttachment) (int, error) {
	args := m.Called(ctx, attachments)
	return args.Int(0), args.Error(1)
}

func (m *MockAttachmentRepository) FindByLessonID(ctx context.Context, lessonID uuid.UUID) ([]domain.LessonAttachment, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LessonAttachment), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	lessonRepo     *MockLessonRepository
	attachmentRepo *MockAttachmentRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		lessonRepo:     &MockLessonRepository{},
		attachmentRepo: &MockAttachmentRepository{},
	}
}

func (m *MockUnitOfWork) LessonRepo() port.LessonRepository {
	return m.lessonRepo
}

func (m *MockUnitOfWork) AttachmentRepo() port.AttachmentRepository {
	return m.attachmentRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetLessonRepoMock() *MockLessonRepository {
	return m.lessonRepo
}

func (m *MockUnitOfWork) GetAttachmentRepoMock() *MockAttachmentRepository {
	return m.attachmentRepo
}
