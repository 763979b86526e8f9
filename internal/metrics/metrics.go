// Package metrics holds the prometheus collectors of the upload and remediation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lesson_media_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Upload metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_uploads_total",
			Help: "Total number of lesson uploads by path and outcome",
		},
		[]string{"mode", "outcome"},
	)

	UploadedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_uploaded_bytes_total",
			Help: "Total number of bytes written to the object store",
		},
		[]string{"kind"},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_conversions_total",
			Help: "Total number of video conversions by caller and outcome",
		},
		[]string{"caller", "outcome"},
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lesson_media_conversion_duration_seconds",
			Help:    "Video conversion duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	ConversionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lesson_media_conversions_in_flight",
			Help: "Number of ffmpeg processes currently running",
		},
	)
)

// Remediation metrics
var (
	RemediationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_remediations_total",
			Help: "Total number of remediation runs by result",
		},
		[]string{"status"},
	)

	SniffedFormatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_sniffed_formats_total",
			Help: "Total number of sniffed videos by container and whether they needed a fix",
		},
		[]string{"container", "needs_fix"},
	)
)

// Worker metrics
var (
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_media_worker_messages_total",
			Help: "Total number of broker messages handled by the remediation worker",
		},
		[]string{"result"},
	)
)
