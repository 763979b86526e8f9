package remediation

import (
	"context"
	"lesson-media/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockRemediationService is a mock implementation of RemediationService
type MockRemediationService struct {
	mock.Mock
}

// NewMockRemediationService creates a new MockRemediationService
func NewMockRemediationService() *MockRemediationService {
	return &MockRemediationService{}
}

func (m *MockRemediationService) Remediate(ctx context.Context, bucket, key string) domain.RemediationResult {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(domain.RemediationResult)
}

func (m *MockRemediationService) RemediateURL(ctx context.Context, videoURL string) domain.RemediationResult {
	args := m.Called(ctx, videoURL)
	return args.Get(0).(domain.RemediationResult)
}
