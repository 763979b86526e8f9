package metrics

import (
	"strconv"
	"time"

	"lesson-media/internal/core/domain"
)

// Conversion outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
)

// ObserveFormat records a sniffed format report
func ObserveFormat(report domain.FormatReport) {
	SniffedFormatsTotal.WithLabelValues(string(report.Container), strconv.FormatBool(report.NeedsFix)).Inc()
}

// ObserveConversion records the outcome and duration of a conversion
func ObserveConversion(caller, outcome string, elapsed time.Duration) {
	ConversionsTotal.WithLabelValues(caller, outcome).Inc()
	if outcome != OutcomeSkipped {
		ConversionDuration.Observe(elapsed.Seconds())
	}
}
