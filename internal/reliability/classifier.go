package reliability

// IsRetryableHTTPStatus classifies retryable HTTP status codes. The voice
// path never retries mid-call (a retry would blow the telephony gateway's own
// webhook timeout), but the classification drives error labels in logs and
// metrics so transient provider trouble is distinguishable from hard failures.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ErrorClass is the metrics label for a provider failure.
func ErrorClass(code int) string {
	if IsRetryableHTTPStatus(code) {
		return "transient"
	}
	return "permanent"
}
