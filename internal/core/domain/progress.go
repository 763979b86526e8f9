package domain

// ProgressStage is the coarse stage exposed to clients
type ProgressStage string

const (
	ProgressValidation ProgressStage = "validation"
	ProgressConversion ProgressStage = "conversion"
	ProgressUpload     ProgressStage = "upload"
	ProgressComplete   ProgressStage = "complete"
)

// Progress is a snapshot of an upload run
type Progress struct {
	Stage   ProgressStage `json:"stage"`
	Percent float64       `json:"percent"`
	Message string        `json:"message"`
}

// ProgressFunc receives conversion percentages between 0 and 100.
// It may be called from another goroutine than the caller.
type ProgressFunc func(percent float64)

// ProgressReporter receives upload progress snapshots
type ProgressReporter func(Progress)
