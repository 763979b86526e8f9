package ffmpeg

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"time"
)

// completion is reported by Convert itself once the output file exists
const maxRunningPercent = 99

// monotonic forwards non-decreasing percentages in [0, 100]
type monotonic struct {
	mu   sync.Mutex
	last float64
	seen bool
	fn   func(float64)
}

func newMonotonic(fn func(float64)) *monotonic {
	return &monotonic{fn: fn}
}

func (m *monotonic) report(percent float64) {
	if m.fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen && percent <= m.last {
		return
	}
	m.seen = true
	m.last = percent
	m.fn(percent)
}

// progressWriter parses the key=value stream written by `ffmpeg -progress pipe:1`
type progressWriter struct {
	duration time.Duration
	report   func(float64)
	partial  []byte
}

func newProgressWriter(duration time.Duration, report func(float64)) *progressWriter {
	return &progressWriter{duration: duration, report: report}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.line(string(w.partial[:i]))
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

func (w *progressWriter) line(line string) {
	if w.duration <= 0 {
		return
	}
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}
	// out_time_ms is in microseconds as well
	if key != "out_time_us" && key != "out_time_ms" {
		return
	}
	micros, err := strconv.ParseInt(value, 10, 64)
	if err != nil || micros < 0 {
		return
	}
	w.report(percentOf(time.Duration(micros)*time.Microsecond, w.duration))
}

func percentOf(done, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	percent := float64(done) / float64(total) * 100
	if percent > maxRunningPercent {
		return maxRunningPercent
	}
	return percent
}

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(string(b.buf))
}
