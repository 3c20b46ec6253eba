package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/naestep/WebsiteUptimeChecker/internal/config"
	"github.com/naestep/WebsiteUptimeChecker/internal/domain"
	"github.com/naestep/WebsiteUptimeChecker/internal/probe"
	"github.com/naestep/WebsiteUptimeChecker/internal/state"
)

// Monitor owns one target's polling loop. It runs check cycles strictly
// sequentially, tracks the UP/DOWN state machine, and emits an Event only
// when the status transitions. All state is private to the loop; the only
// outputs are log lines, the optional event callback, and the target's own
// entry in the state store.
type Monitor struct {
	target  config.Target
	checker probe.Checker
	logger  *zap.Logger
	store   *state.Store
	onEvent func(domain.Event)

	status   domain.Status
	failures int
}

// New creates a Monitor. store and the event callback are optional.
func New(target config.Target, checker probe.Checker, logger *zap.Logger, store *state.Store) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if target.Interval <= 0 {
		target.Interval = 60 * time.Second
	}
	return &Monitor{
		target:  target,
		checker: checker,
		logger:  logger,
		store:   store,
		status:  domain.StatusUnknown,
	}
}

// SetOnEvent registers a callback invoked on every UP/DOWN transition.
// Must be called before Run.
func (m *Monitor) SetOnEvent(fn func(domain.Event)) {
	m.onEvent = fn
}

// Run executes check cycles until ctx is cancelled. The first cycle starts
// immediately; subsequent cycles wait the target interval. A failed cycle is
// the expected case, never fatal.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info(fmt.Sprintf("Starting monitoring for %s (%s)", m.target.Name, m.target.URL),
		zap.Duration("interval", m.target.Interval))

	m.runCycle(ctx)

	t := time.NewTicker(m.target.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitoring stopped", zap.String("target", m.target.Name))
			return
		case <-t.C:
			m.runCycle(ctx)
		}
	}
}

func (m *Monitor) runCycle(ctx context.Context) {
	res := m.checker.Check(ctx, m.target.URL)
	if ctx.Err() != nil {
		// Shutdown raced the cycle; report nothing.
		return
	}
	now := time.Now().UTC()

	if res.Success {
		m.failures = 0
		if m.status != domain.StatusUp {
			prev := m.status
			m.status = domain.StatusUp
			m.logger.Info(fmt.Sprintf("%s is UP", m.target.URL),
				zap.String("target", m.target.Name),
				zap.Int("status", res.StatusCode))
			m.emit(prev, res, now)
		} else {
			m.logger.Debug("check succeeded",
				zap.String("target", m.target.Name),
				zap.Int("status", res.StatusCode),
				zap.Float64("latency_ms", res.LatencyMS))
		}
	} else {
		m.failures++
		if m.status != domain.StatusDown {
			prev := m.status
			m.status = domain.StatusDown
			m.logger.Error(fmt.Sprintf(
				"DOWNTIME DETECTED: %s is unreachable - Error: %s. Consecutive failures: %d",
				m.target.URL, res.Reason, m.failures),
				zap.String("target", m.target.Name))
			m.emit(prev, res, now)
		} else {
			m.logger.Debug("still down",
				zap.String("target", m.target.Name),
				zap.Int("consecutive_failures", m.failures),
				zap.String("reason", res.Reason))
		}
	}

	if m.store != nil {
		st := domain.TargetState{
			Name:                m.target.Name,
			URL:                 m.target.URL,
			Status:              m.status,
			ConsecutiveFailures: m.failures,
			LastStatusCode:      res.StatusCode,
			LastChecked:         now,
		}
		if !res.Success {
			st.LastError = res.Reason
		}
		m.store.Set(st)
	}
}

func (m *Monitor) emit(prev domain.Status, res probe.CheckResult, at time.Time) {
	if m.onEvent == nil {
		return
	}
	m.onEvent(domain.Event{
		Name:                m.target.Name,
		URL:                 m.target.URL,
		From:                prev,
		To:                  m.status,
		Reason:              res.Reason,
		ConsecutiveFailures: m.failures,
		At:                  at,
	})
}
