package upload

import (
	"lesson-media/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_NeverGoesBackwards(t *testing.T) {
	// Arrange
	var events []domain.Progress
	tr := newTracker(func(p domain.Progress) { events = append(events, p) })

	// Act
	tr.report(domain.ProgressValidation, 0, "validating upload")
	tr.report(domain.ProgressConversion, 20, "converting video")
	tr.report(domain.ProgressConversion, 10, "converting video")
	tr.report(domain.ProgressValidation, 30, "late validation")
	tr.report(domain.ProgressUpload, 15, "uploading files")

	// Assert
	assert.Equal(t, []domain.Progress{
		{Stage: domain.ProgressValidation, Percent: 0, Message: "validating upload"},
		{Stage: domain.ProgressConversion, Percent: 20, Message: "converting video"},
		{Stage: domain.ProgressUpload, Percent: 20, Message: "uploading files"},
	}, events)
}

func TestTracker_ConversionBand(t *testing.T) {
	var events []domain.Progress
	tr := newTracker(func(p domain.Progress) { events = append(events, p) })

	tr.conversion(0)
	tr.conversion(100)

	assert.Equal(t, validationEnd, events[0].Percent)
	assert.Equal(t, conversionEnd, events[1].Percent)
}

func TestTracker_NilReporter(t *testing.T) {
	tr := newTracker(nil)

	assert.NotPanics(t, func() { tr.report(domain.ProgressComplete, 100, "done") })
}

func TestByteCounter(t *testing.T) {
	var events []domain.Progress
	tr := newTracker(func(p domain.Progress) { events = append(events, p) })
	counter := &byteCounter{total: 200, tracker: tr}

	counter.add(100)
	counter.add(100)

	assert.Equal(t, 84.5, events[0].Percent)
	assert.Equal(t, uploadEnd, events[1].Percent)
}

func TestObjectKey(t *testing.T) {
	u := &uploadService{now: func() time.Time { return time.UnixMilli(1700000000000) }}

	key := u.objectKey("lesson", "mod/1 a", ".mp4")

	assert.Regexp(t, `^lesson-mod-1-a-1700000000000-[0-9a-f]{8}\.mp4$`, key)
}
