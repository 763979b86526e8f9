package upload

import (
	"io"
	"lesson-media/internal/core/domain"
	"sync"
)

// overall percentage bands of each stage
const (
	validationEnd = 5.0
	conversionEnd = 70.0
	uploadEnd     = 99.0
)

var stageOrder = map[domain.ProgressStage]int{
	domain.ProgressValidation: 0,
	domain.ProgressConversion: 1,
	domain.ProgressUpload:     2,
	domain.ProgressComplete:   3,
}

// tracker forwards progress snapshots to the caller.
// Percent and stage never go backwards, reports may come from several goroutines.
type tracker struct {
	mu      sync.Mutex
	fn      domain.ProgressReporter
	last    domain.Progress
	started bool
}

func newTracker(fn domain.ProgressReporter) *tracker {
	return &tracker{fn: fn}
}

func (t *tracker) report(stage domain.ProgressStage, percent float64, message string) {
	if t.fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		if stageOrder[stage] < stageOrder[t.last.Stage] {
			return
		}
		if percent < t.last.Percent {
			percent = t.last.Percent
		}
		if stage == t.last.Stage && percent == t.last.Percent && message == t.last.Message {
			return
		}
	}

	t.started = true
	t.last = domain.Progress{Stage: stage, Percent: clamp(percent), Message: message}
	t.fn(t.last)
}

// conversion maps a 0..100 transcoder percentage onto the conversion band
func (t *tracker) conversion(percent float64) {
	t.report(domain.ProgressConversion, validationEnd+clamp(percent)/100*(conversionEnd-validationEnd), "converting video")
}

func clamp(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// byteCounter reports the share of written bytes over the upload band
type byteCounter struct {
	mu      sync.Mutex
	total   int64
	written int64
	tracker *tracker
}

func (c *byteCounter) add(n int) {
	if c.total <= 0 || n <= 0 {
		return
	}
	c.mu.Lock()
	c.written += int64(n)
	share := float64(c.written) / float64(c.total)
	c.mu.Unlock()

	c.tracker.report(domain.ProgressUpload, conversionEnd+min(share, 1)*(uploadEnd-conversionEnd), "uploading files")
}

type countingReader struct {
	r       io.Reader
	counter *byteCounter
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.counter.add(n)
	return n, err
}
