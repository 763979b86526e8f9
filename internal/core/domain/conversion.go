package domain

import (
	"fmt"
	"time"
)

// Stage is the stage of a conversion job
type Stage string

const (
	StageValidating Stage = "validating"
	StageConverting Stage = "converting"
	StageUploading  Stage = "uploading"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// allowed transitions, failed is reachable from every non terminal stage
var stageTransitions = map[Stage][]Stage{
	StageValidating: {StageConverting, StageUploading},
	StageConverting: {StageUploading},
	StageUploading:  {StageComplete},
}

// StageTiming records how long a job stayed in a stage
type StageTiming struct {
	Stage     Stage         `json:"stage"`
	StartedAt time.Time     `json:"startedAt"`
	Elapsed   time.Duration `json:"elapsed"`
}

// ConversionJob tracks one request through validating -> converting -> uploading -> complete.
// It is owned by a single request and never persisted.
type ConversionJob struct {
	Stage         Stage         `json:"stage"`
	InputBytes    int64         `json:"inputBytes"`
	OutputBytes   int64         `json:"outputBytes"`
	Stages        []StageTiming `json:"stages"`
	FailureReason string        `json:"failureReason,omitempty"`

	now func() time.Time
}

// NewConversionJob creates a job in the validating stage
func NewConversionJob(now func() time.Time) *ConversionJob {
	if now == nil {
		now = time.Now
	}
	return &ConversionJob{
		Stage:  StageValidating,
		Stages: []StageTiming{{Stage: StageValidating, StartedAt: now()}},
		now:    now,
	}
}

// Terminal reports whether the job reached complete or failed
func (j *ConversionJob) Terminal() bool {
	return j.Stage == StageComplete || j.Stage == StageFailed
}

// Advance moves the job to the next stage
func (j *ConversionJob) Advance(next Stage) error {
	if next == StageFailed {
		return fmt.Errorf("%w: use Fail to enter %s", ErrInvalidTransition, StageFailed)
	}
	for _, allowed := range stageTransitions[j.Stage] {
		if allowed == next {
			j.enter(next)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Stage, next)
}

// Fail moves the job to the failed stage, it is a no-op on a terminal job
func (j *ConversionJob) Fail(reason error) {
	if j.Terminal() {
		return
	}
	if reason != nil {
		j.FailureReason = reason.Error()
	}
	j.enter(StageFailed)
}

func (j *ConversionJob) enter(next Stage) {
	now := j.now()
	if last := len(j.Stages) - 1; last >= 0 {
		j.Stages[last].Elapsed = now.Sub(j.Stages[last].StartedAt)
	}
	j.Stage = next
	j.Stages = append(j.Stages, StageTiming{Stage: next, StartedAt: now})
}
