package domain_test

import (
	"errors"
	"lesson-media/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestConversionJob_Transitions(t *testing.T) {
	t.Run("full path", func(t *testing.T) {
		// Arrange
		clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		job := domain.NewConversionJob(clock.now)

		// Act
		require.NoError(t, job.Advance(domain.StageConverting))
		require.NoError(t, job.Advance(domain.StageUploading))
		require.NoError(t, job.Advance(domain.StageComplete))

		// Assert
		assert.Equal(t, domain.StageComplete, job.Stage)
		assert.True(t, job.Terminal())
		require.Len(t, job.Stages, 4)
		assert.Equal(t, time.Second, job.Stages[0].Elapsed)
		assert.Equal(t, domain.StageComplete, job.Stages[3].Stage)
	})

	t.Run("conversion can be skipped", func(t *testing.T) {
		job := domain.NewConversionJob(nil)

		require.NoError(t, job.Advance(domain.StageUploading))
		require.NoError(t, job.Advance(domain.StageComplete))

		assert.Equal(t, domain.StageComplete, job.Stage)
	})

	t.Run("invalid transitions", func(t *testing.T) {
		tests := []struct {
			name string
			from []domain.Stage
			next domain.Stage
		}{
			{"validating to complete", nil, domain.StageComplete},
			{"uploading back to converting", []domain.Stage{domain.StageUploading}, domain.StageConverting},
			{"complete is terminal", []domain.Stage{domain.StageUploading, domain.StageComplete}, domain.StageUploading},
			{"failed only through Fail", nil, domain.StageFailed},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				job := domain.NewConversionJob(nil)
				for _, s := range tt.from {
					require.NoError(t, job.Advance(s))
				}
				before := job.Stage

				err := job.Advance(tt.next)

				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				assert.Equal(t, before, job.Stage)
			})
		}
	})
}

func TestConversionJob_Fail(t *testing.T) {
	t.Run("from a running stage", func(t *testing.T) {
		job := domain.NewConversionJob(nil)
		require.NoError(t, job.Advance(domain.StageConverting))

		job.Fail(errors.New("storage unavailable"))

		assert.Equal(t, domain.StageFailed, job.Stage)
		assert.Equal(t, "storage unavailable", job.FailureReason)
		assert.True(t, job.Terminal())
	})

	t.Run("no-op once complete", func(t *testing.T) {
		job := domain.NewConversionJob(nil)
		require.NoError(t, job.Advance(domain.StageUploading))
		require.NoError(t, job.Advance(domain.StageComplete))

		job.Fail(errors.New("late failure"))

		assert.Equal(t, domain.StageComplete, job.Stage)
		assert.Empty(t, job.FailureReason)
	})
}
