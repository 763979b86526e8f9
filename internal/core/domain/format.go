package domain

// Container is the outer binary envelope of a media file
type Container string

const (
	ContainerMP4     Container = "mp4"
	ContainerAVI     Container = "avi"
	ContainerWebM    Container = "webm"
	ContainerUnknown Container = "unknown"
)

// FormatReport is the result of sniffing the leading bytes of a video
type FormatReport struct {
	Container Container `json:"container"`
	Brand     string    `json:"brand,omitempty"`
	IsValid   bool      `json:"isValid"`
	NeedsFix  bool      `json:"needsFix"`
}

// Playable reports whether the sniffed video can be served to a browser as is
func (r FormatReport) Playable() bool {
	return r.IsValid && !r.NeedsFix
}
