package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryChecker wraps an inner Checker with bounded retry. Attempts is the
// total number of attempts for one cycle (the first counts as 1/Attempts);
// the first successful attempt short-circuits the cycle. Backoff is slept
// between attempts and observes ctx so shutdown is prompt.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
}

func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var last CheckResult
	for i := 1; i <= attempts; i++ {
		if i > 1 {
			log.Warn(fmt.Sprintf("Retry attempt %d/%d", i, attempts),
				zap.String("url", target))
		}

		last = r.Inner.Check(ctx, target)
		if last.Success {
			if i > 1 {
				log.Info(fmt.Sprintf("Successfully connected after %d attempts", i),
					zap.String("url", target))
			}
			return last
		}
		if ctx.Err() != nil {
			return last
		}

		fields := []zap.Field{
			zap.String("url", target),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
		}
		if last.StatusCode != 0 {
			fields = append(fields, zap.Int("status", last.StatusCode))
		}
		log.Warn(last.Reason, fields...)

		if i < attempts {
			timer := time.NewTimer(r.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return last
			case <-timer.C:
			}
		}
	}
	return last
}
