package domain

// RemediationStatus is the outcome of a remediation
type RemediationStatus string

const (
	RemediationAlreadyValid  RemediationStatus = "already_valid"
	RemediationFixed         RemediationStatus = "fixed"
	RemediationNotAccessible RemediationStatus = "not_accessible"
)

// RemediationResult is returned by a remediation run.
// Key is the derived key when the video was fixed, Cause keeps the error kind for not accessible results.
type RemediationResult struct {
	Status    RemediationStatus `json:"status"`
	Bucket    string            `json:"bucket"`
	Key       string            `json:"key"`
	URL       string            `json:"url,omitempty"`
	SizeBytes int64             `json:"sizeBytes,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Format    *FormatReport     `json:"format,omitempty"`
	Cause     error             `json:"-"`
}

// AlreadyValid builds an already valid result
func AlreadyValid(bucket, key string, report FormatReport) RemediationResult {
	return RemediationResult{Status: RemediationAlreadyValid, Bucket: bucket, Key: key, Format: &report}
}

// Fixed builds a fixed result pointing at the derived key
func Fixed(bucket, newKey, url string, sizeBytes int64, report FormatReport) RemediationResult {
	return RemediationResult{Status: RemediationFixed, Bucket: bucket, Key: newKey, URL: url, SizeBytes: sizeBytes, Format: &report}
}

// NotAccessible builds a not accessible result from the error that stopped the run
func NotAccessible(bucket, key string, cause error) RemediationResult {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	return RemediationResult{Status: RemediationNotAccessible, Bucket: bucket, Key: key, Reason: reason, Cause: cause}
}

// RemediationRequest is a remediation job received from the message broker.
// Either VideoURL or Key must be set.
type RemediationRequest struct {
	Bucket   string `json:"bucket,omitempty"`
	Key      string `json:"key,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}
