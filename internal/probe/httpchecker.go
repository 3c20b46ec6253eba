package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// HTTPChecker issues one GET request per Check call. Statuses in 2xx-3xx
// count as up; 4xx+ and transport errors count as down. The client follows
// redirects, so a 3xx normally resolves to the final status.
type HTTPChecker struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()

	actx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Reason: fmt.Sprintf("invalid request: %v", err)}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Reason: h.classify(ctx, actx, err), LatencyMS: latency}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return CheckResult{
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("HTTP error: %s", resp.Status),
			LatencyMS:  latency,
		}
	}

	return CheckResult{
		Success:    true,
		StatusCode: resp.StatusCode,
		Reason:     resp.Status,
		LatencyMS:  latency,
	}
}

// classify turns a transport error into a stable human-readable reason.
func (h *HTTPChecker) classify(parent, attempt context.Context, err error) string {
	if parent.Err() != nil {
		return "canceled"
	}
	var nerr net.Error
	if errors.Is(attempt.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Sprintf("Request timed out after %s", h.Timeout)
	}
	return fmt.Sprintf("Failed to connect: %v", err)
}
