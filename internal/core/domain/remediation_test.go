package domain_test

import (
	"fmt"
	"lesson-media/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotAccessible_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("stat failed: %w", domain.ErrObjectNotFound)

	result := domain.NotAccessible("lesson-videos", "a.avi", cause)

	assert.Equal(t, domain.RemediationNotAccessible, result.Status)
	assert.ErrorIs(t, result.Cause, domain.ErrObjectNotFound)
	assert.Equal(t, "stat failed: object not found", result.Reason)
}

func TestFormatReport_Playable(t *testing.T) {
	assert.True(t, domain.FormatReport{Container: domain.ContainerMP4, Brand: "isom", IsValid: true}.Playable())
	assert.False(t, domain.FormatReport{Container: domain.ContainerMP4, Brand: "qt  ", IsValid: true, NeedsFix: true}.Playable())
	assert.False(t, domain.FormatReport{Container: domain.ContainerUnknown, NeedsFix: true}.Playable())
}

func TestIsObjectCreated(t *testing.T) {
	assert.True(t, domain.IsObjectCreated("s3:ObjectCreated:Put"))
	assert.True(t, domain.IsObjectCreated("s3:ObjectCreated:CompleteMultipartUpload"))
	assert.False(t, domain.IsObjectCreated("s3:ObjectRemoved:Delete"))
}
