package probe

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fake checker you can script per attempt
type fakeChecker struct {
	mu      sync.Mutex
	results []CheckResult
	calls   int
}

func (f *fakeChecker) Check(ctx context.Context, target string) CheckResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.results) {
		return f.results[i]
	}
	return CheckResult{Reason: "no more scripted results"}
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetryChecker_ShortCircuitsOnFirstSuccess(t *testing.T) {
	f := &fakeChecker{results: []CheckResult{{Success: true, StatusCode: 200}}}
	rc := &RetryChecker{Inner: f, Attempts: 3, Backoff: 10 * time.Millisecond}

	out := rc.Check(context.Background(), "https://example.com")
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if f.callCount() != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", f.callCount())
	}
}

func TestRetryChecker_SucceedsAfterRetry(t *testing.T) {
	f := &fakeChecker{results: []CheckResult{
		{Reason: "Failed to connect: dial tcp: refused"},
		{Success: true, StatusCode: 200},
	}}
	rc := &RetryChecker{Inner: f, Attempts: 3, Backoff: time.Millisecond}

	out := rc.Check(context.Background(), "https://example.com")
	if !out.Success {
		t.Fatalf("expected success after retry, got %+v", out)
	}
	if f.callCount() != 2 {
		t.Fatalf("expected 2 attempts, got %d", f.callCount())
	}
}

func TestRetryChecker_AllFailReturnsLast(t *testing.T) {
	f := &fakeChecker{results: []CheckResult{
		{Reason: "fail1"},
		{Reason: "fail2"},
		{Reason: "fail3"},
	}}
	rc := &RetryChecker{Inner: f, Attempts: 3, Backoff: 0}

	out := rc.Check(context.Background(), "https://example.com")
	if out.Success {
		t.Fatalf("expected failure, got success")
	}
	if out.Reason != "fail3" {
		t.Fatalf("expected last result, got %q", out.Reason)
	}
	if f.callCount() != 3 {
		t.Fatalf("expected 3 attempts total, got %d", f.callCount())
	}
}

// Three failed attempts must produce exactly two "Retry attempt" warnings
// (2/3 and 3/3) plus one per-attempt failure warning each.
func TestRetryChecker_LogsRetryNotices(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := &fakeChecker{results: []CheckResult{
		{Reason: "Failed to connect: refused"},
		{Reason: "Failed to connect: refused"},
		{Reason: "Failed to connect: refused"},
	}}
	rc := &RetryChecker{
		Inner:    f,
		Attempts: 3,
		Backoff:  0,
		Logger:   zap.New(core),
	}

	rc.Check(context.Background(), "https://example.com")

	var retries, failures int
	for _, e := range logs.All() {
		switch {
		case strings.HasPrefix(e.Message, "Retry attempt"):
			retries++
		case strings.HasPrefix(e.Message, "Failed to connect"):
			failures++
		}
	}
	if retries != 2 {
		t.Fatalf("want exactly 2 retry notices, got %d", retries)
	}
	if failures != 3 {
		t.Fatalf("want 3 attempt-failure warnings, got %d", failures)
	}
	if got := logs.FilterMessage("Retry attempt 2/3").Len(); got != 1 {
		t.Fatalf("want one 2/3 notice, got %d", got)
	}
	if got := logs.FilterMessage("Retry attempt 3/3").Len(); got != 1 {
		t.Fatalf("want one 3/3 notice, got %d", got)
	}
}

func TestRetryChecker_CancelDuringBackoffStops(t *testing.T) {
	f := &fakeChecker{results: []CheckResult{
		{Reason: "fail1"},
		{Reason: "fail2"},
	}}
	rc := &RetryChecker{Inner: f, Attempts: 2, Backoff: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan CheckResult, 1)
	go func() { done <- rc.Check(ctx, "https://example.com") }()

	time.Sleep(20 * time.Millisecond) // let attempt 1 fail and enter backoff
	cancel()

	select {
	case out := <-done:
		if out.Success {
			t.Fatalf("expected failure result, got success")
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not stop promptly on cancellation")
	}
	if f.callCount() != 1 {
		t.Fatalf("expected no attempt after cancellation, got %d", f.callCount())
	}
}
