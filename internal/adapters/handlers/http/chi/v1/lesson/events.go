package lesson

import (
	"encoding/json"
	"fmt"
	"lesson-media/internal/core/domain"
	"log/slog"
	"net/http"
	"strings"
)

// server-sent event names
const (
	eventProgress = "progress"
	eventResult   = "result"
	eventError    = "error"
)

// V1ErrorEvent is the payload of the final error event of a streamed upload
type V1ErrorEvent struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// eventStream writes upload progress as server-sent events
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *slog.Logger
}

func newEventStream(w http.ResponseWriter, logger *slog.Logger) (*eventStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &eventStream{w: w, flusher: flusher, logger: logger}, true
}

func (s *eventStream) send(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("error encoding event", "event", event, "error", err)
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.logger.Debug("error writing event", "event", event, "error", err)
		return
	}
	s.flusher.Flush()
}

func (s *eventStream) progress(p domain.Progress) {
	s.send(eventProgress, p)
}
