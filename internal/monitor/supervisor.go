package monitor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/naestep/WebsiteUptimeChecker/internal/config"
	"github.com/naestep/WebsiteUptimeChecker/internal/domain"
	"github.com/naestep/WebsiteUptimeChecker/internal/probe"
	"github.com/naestep/WebsiteUptimeChecker/internal/state"
)

// Supervisor runs one Monitor goroutine per target and coordinates
// shutdown. It holds only the monitor handles, never their state.
type Supervisor struct {
	logger   *zap.Logger
	monitors []*Monitor
	wg       sync.WaitGroup
}

// NewSupervisor creates a Supervisor over prebuilt monitors.
func NewSupervisor(logger *zap.Logger, monitors ...*Monitor) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{logger: logger, monitors: monitors}
}

// FromConfig builds one monitor per configured target. All monitors share
// one HTTP client; each gets its own retry policy carrying the target name
// in its log fields.
func FromConfig(cfg *config.Config, logger *zap.Logger, store *state.Store) *Supervisor {
	base := probe.NewHTTPChecker(cfg.Timeout)
	monitors := make([]*Monitor, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		rc := &probe.RetryChecker{
			Inner:    base,
			Attempts: cfg.MaxRetries,
			Backoff:  cfg.RetryDelay,
			Logger:   logger.With(zap.String("target", t.Name)),
		}
		monitors = append(monitors, New(t, rc, logger, store))
	}
	return NewSupervisor(logger, monitors...)
}

// SetOnEvent registers the transition callback on every monitor. Must be
// called before Start.
func (s *Supervisor) SetOnEvent(fn func(domain.Event)) {
	for _, m := range s.monitors {
		m.SetOnEvent(fn)
	}
}

// Start spawns one goroutine per monitor. It is non-blocking. A panic in a
// single monitor is logged and does not affect the others.
func (s *Supervisor) Start(ctx context.Context) {
	for _, m := range s.monitors {
		m := m
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("monitor terminated unexpectedly",
						zap.String("target", m.target.Name),
						zap.Any("panic", r))
				}
			}()
			m.Run(ctx)
		}()
	}
}

// Wait blocks until every monitor goroutine has exited.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
