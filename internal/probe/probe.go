package probe

import "context"

// CheckResult is the outcome of a single availability attempt.
//
// StatusCode is the HTTP status when a response was received; 0 for
// transport errors (timeout, refused connection, DNS failure).
type CheckResult struct {
	Success    bool    `json:"success"`
	StatusCode int     `json:"status_code,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
}

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
