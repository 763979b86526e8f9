package remediation_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"lesson-media/internal/adapters/storage"
	"lesson-media/internal/adapters/storage/memory"
	"lesson-media/internal/adapters/transcoder"
	"lesson-media/internal/config"
	"lesson-media/internal/core/domain"
	"lesson-media/internal/core/port"
	"lesson-media/internal/core/service/lesson"
	"lesson-media/internal/core/service/remediation"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBucket  = "videos"
	testBaseURL = "http://storage.test"
)

var defaultCfg = config.RemediationConfig{VideoBucket: testBucket, JobTimeout: time.Minute}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(store port.ObjectStore, tc port.Transcoder, lessons port.LessonService) port.RemediationService {
	return remediation.NewRemediationService(store, tc, lessons, defaultCfg, discardLogger())
}

func mp4Bytes(brand string, size int) []byte {
	header := make([]byte, 8, size)
	binary.BigEndian.PutUint32(header[:4], 24)
	copy(header[4:], "ftyp")
	header = append(header, brand...)
	header = append(header, 0, 0, 2, 0)
	return append(header, bytes.Repeat([]byte{0x01}, size-len(header))...)
}

func aviBytes(size int) []byte {
	b := []byte("RIFF\x00\x00\x00\x00AVI LIST")
	return append(b, bytes.Repeat([]byte("."), size-len(b))...)
}

func converted(data []byte) *domain.ConvertedVideo {
	return &domain.ConvertedVideo{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		SizeBytes:   int64(len(data)),
		ContentType: domain.MimeTypeMP4,
	}
}

func TestRemediationService_Remediate_AlreadyValid(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)

	original := mp4Bytes("isom", 4096)
	store.Seed(testBucket, "lesson-m1-1-abcd1234.mp4", original, "video/mp4", nil)

	// Act
	first := service.Remediate(ctx, testBucket, "lesson-m1-1-abcd1234.mp4")
	second := service.Remediate(ctx, testBucket, "lesson-m1-1-abcd1234.mp4")

	// Assert
	for _, result := range []domain.RemediationResult{first, second} {
		assert.Equal(t, domain.RemediationAlreadyValid, result.Status)
		assert.Equal(t, "lesson-m1-1-abcd1234.mp4", result.Key)
		assert.Equal(t, "isom", result.Format.Brand)
	}
	assert.Empty(t, store.Puts())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, original, store.Bytes(testBucket, "lesson-m1-1-abcd1234.mp4"))
	mockTranscoder.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemediationService_Remediate_FixesAVI(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)

	key := "lesson-m1-1-abcd1234.avi"
	original := aviBytes(8192)
	output := mp4Bytes("isom", 2048)
	store.Seed(testBucket, key, original, "video/x-msvideo", map[string]string{"Original-Filename": "week1.avi"})

	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got, err := io.ReadAll(args.Get(1).(io.Reader))
			require.NoError(t, err)
			assert.Equal(t, original, got)
			assert.Nil(t, args.Get(2))
		}).
		Return(converted(output), nil).
		Once()

	// Act
	result := service.Remediate(ctx, testBucket, key)

	// Assert
	require.Equal(t, domain.RemediationFixed, result.Status, result.Reason)
	assert.Equal(t, "lesson-m1-1-abcd1234-fixed.mp4", result.Key)
	assert.Equal(t, testBaseURL+"/videos/lesson-m1-1-abcd1234-fixed.mp4", result.URL)
	assert.Equal(t, int64(len(output)), result.SizeBytes)
	assert.Equal(t, domain.ContainerAVI, result.Format.Container)

	assert.Equal(t, original, store.Bytes(testBucket, key))
	assert.Equal(t, output, store.Bytes(testBucket, result.Key))

	info, err := store.StatObject(ctx, testBucket, result.Key)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", info.ContentType)
	assert.Equal(t, key, info.Metadata["original-key"])
	assert.Equal(t, "week1.avi", info.Metadata["original-filename"])
	_, err = time.Parse(time.RFC3339, info.Metadata["fixed-at"])
	assert.NoError(t, err)

	// the fixed copy is itself valid
	again := service.Remediate(ctx, testBucket, result.Key)
	assert.Equal(t, domain.RemediationAlreadyValid, again.Status)
	mockTranscoder.AssertExpectations(t)
}

func TestRemediationService_Remediate_UnsafeBrand(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)
	store.Seed(testBucket, "clip.mov", mp4Bytes("qt  ", 1024), "video/quicktime", nil)

	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(converted(mp4Bytes("isom", 512)), nil)

	// Act
	result := service.Remediate(context.Background(), testBucket, "clip.mov")

	// Assert
	assert.Equal(t, domain.RemediationFixed, result.Status)
	assert.Equal(t, "clip-fixed.mp4", result.Key)
	info, err := store.StatObject(context.Background(), testBucket, "clip-fixed.mp4")
	require.NoError(t, err)
	assert.Equal(t, "clip.mov", info.Metadata["original-filename"])
}

func TestRemediationService_Remediate_NotFound(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)

	// Act
	result := service.Remediate(context.Background(), testBucket, "missing.avi")

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrObjectNotFound)
	assert.NotEmpty(t, result.Reason)
	assert.Zero(t, store.Len())
}

func TestRemediationService_Remediate_StorageUnavailable(t *testing.T) {
	// Arrange
	mockStorage := storage.NewMockStorage()
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(mockStorage, mockTranscoder, nil)

	mockStorage.
		On("StatObject", mock.Anything, testBucket, "a.avi").
		Return(nil, domain.ErrStorageUnavailable)

	// Act
	result := service.Remediate(context.Background(), testBucket, "a.avi")

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrStorageUnavailable)
	mockStorage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemediationService_Remediate_HeaderReadFails(t *testing.T) {
	// Arrange
	mockStorage := storage.NewMockStorage()
	service := newService(mockStorage, &transcoder.MockTranscoder{}, nil)

	mockStorage.
		On("StatObject", mock.Anything, testBucket, "a.avi").
		Return(&domain.ObjectInfo{Bucket: testBucket, Key: "a.avi", SizeBytes: 10}, nil)
	mockStorage.
		On("GetHeaderBytes", mock.Anything, testBucket, "a.avi", int64(2048)).
		Return(nil, errors.New("connection reset: "+domain.ErrStorageUnavailable.Error()))

	// Act
	result := service.Remediate(context.Background(), testBucket, "a.avi")

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.Contains(t, result.Reason, "connection reset")
	mockStorage.AssertExpectations(t)
}

func TestRemediationService_Remediate_ConversionFails(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)

	original := aviBytes(1024)
	store.Seed(testBucket, "broken.avi", original, "video/x-msvideo", nil)
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("exit status 1"))

	// Act
	result := service.Remediate(context.Background(), testBucket, "broken.avi")

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrConversion)
	assert.Empty(t, store.Puts())
	assert.Equal(t, original, store.Bytes(testBucket, "broken.avi"))
}

func TestRemediationService_Remediate_PutFails(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)

	original := aviBytes(1024)
	store.Seed(testBucket, "a.avi", original, "video/x-msvideo", nil)
	store.FailPut = true
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(converted(mp4Bytes("isom", 256)), nil)

	// Act
	result := service.Remediate(context.Background(), testBucket, "a.avi")

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrStorageUnavailable)
	assert.Nil(t, store.Bytes(testBucket, "a-fixed.mp4"))
	assert.Equal(t, original, store.Bytes(testBucket, "a.avi"))
}

func TestRemediationService_Remediate_MissingKey(t *testing.T) {
	service := newService(memory.NewStore(testBaseURL), &transcoder.MockTranscoder{}, nil)

	result := service.Remediate(context.Background(), testBucket, "")

	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrValidation)
}

func TestRemediationService_Remediate_RepointsLessons(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	mockLessons := lesson.NewMockLessonService()
	service := newService(store, mockTranscoder, mockLessons)

	output := mp4Bytes("isom", 300)
	store.Seed(testBucket, "a.avi", aviBytes(600), "video/x-msvideo", nil)
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(converted(output), nil)
	mockLessons.
		On("ReplaceVideoURL", mock.Anything, testBaseURL+"/videos/a.avi", testBaseURL+"/videos/a-fixed.mp4", int64(len(output))).
		Return(2, nil).
		Once()

	// Act
	result := service.Remediate(context.Background(), testBucket, "a.avi")

	// Assert
	assert.Equal(t, domain.RemediationFixed, result.Status)
	mockLessons.AssertExpectations(t)
}

func TestRemediationService_Remediate_LessonUpdateFailureKeepsFix(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	mockLessons := lesson.NewMockLessonService()
	service := newService(store, mockTranscoder, mockLessons)

	store.Seed(testBucket, "a.avi", aviBytes(600), "video/x-msvideo", nil)
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(converted(mp4Bytes("isom", 300)), nil)
	mockLessons.
		On("ReplaceVideoURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, errors.New("database is down"))

	// Act
	result := service.Remediate(context.Background(), testBucket, "a.avi")

	// Assert
	assert.Equal(t, domain.RemediationFixed, result.Status)
	assert.NotNil(t, store.Bytes(testBucket, "a-fixed.mp4"))
}

func TestRemediationService_Remediate_SameKeyRunsOnce(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)
	store.Seed(testBucket, "a.avi", aviBytes(600), "video/x-msvideo", nil)

	started := make(chan struct{})
	release := make(chan struct{})
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(converted(mp4Bytes("isom", 300)), nil)

	var wg sync.WaitGroup
	results := make([]domain.RemediationResult, 2)

	// Act
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = service.Remediate(context.Background(), testBucket, "a.avi")
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = service.Remediate(context.Background(), testBucket, "a.avi")
	}()
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	// Assert
	mockTranscoder.AssertNumberOfCalls(t, "Convert", 1)
	assert.Len(t, store.Puts(), 1)
	for _, r := range results {
		assert.Equal(t, domain.RemediationFixed, r.Status)
		assert.Equal(t, "a-fixed.mp4", r.Key)
	}
}

func TestRemediationService_Remediate_CancelledCallerLeavesSharedRunAlive(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)
	store.Seed(testBucket, "a.avi", aviBytes(600), "video/x-msvideo", nil)

	started := make(chan struct{})
	release := make(chan struct{})
	convertErr := make(chan error, 1)
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
			}
			convertErr <- ctx.Err()
		}).
		Return(converted(mp4Bytes("isom", 300)), nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	first := make(chan domain.RemediationResult, 1)
	second := make(chan domain.RemediationResult, 1)

	// Act
	go func() { first <- service.Remediate(firstCtx, testBucket, "a.avi") }()
	<-started
	go func() { second <- service.Remediate(context.Background(), testBucket, "a.avi") }()
	time.Sleep(100 * time.Millisecond)

	cancelFirst()
	firstResult := <-first
	close(release)
	secondResult := <-second

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, firstResult.Status)
	assert.ErrorIs(t, firstResult.Cause, context.Canceled)
	assert.NoError(t, <-convertErr)
	require.Equal(t, domain.RemediationFixed, secondResult.Status, secondResult.Reason)
	assert.Equal(t, "a-fixed.mp4", secondResult.Key)
	mockTranscoder.AssertNumberOfCalls(t, "Convert", 1)
	assert.Len(t, store.Puts(), 1)
}

func TestRemediationService_Remediate_LoneCallerCancelled(t *testing.T) {
	// Arrange
	store := memory.NewStore(testBaseURL)
	mockTranscoder := &transcoder.MockTranscoder{}
	service := newService(store, mockTranscoder, nil)
	store.Seed(testBucket, "a.avi", aviBytes(600), "video/x-msvideo", nil)

	release := make(chan struct{})
	mockTranscoder.
		On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-release }).
		Return(converted(mp4Bytes("isom", 300)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	result := service.Remediate(ctx, testBucket, "a.avi")
	close(release)

	// Assert
	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, context.Canceled)
	assert.Eventually(t, func() bool { return len(store.Puts()) == 1 }, time.Second, 10*time.Millisecond)
}
