// Package scheduler drives the periodic read phase: one pass over all
// registered read callbacks per sampling step.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kruczeks/collectd/internal/plugin"
	"github.com/kruczeks/collectd/pkg/logger"
)

// Scheduler ticks at the configured interval and runs a read pass each tick.
// A failing reader only warns; the next tick is the retry.
type Scheduler struct {
	plugins  *plugin.Context
	interval time.Duration

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	once    sync.Once
}

// New creates a scheduler over the given plugin context.
func New(plugins *plugin.Context, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = plugins.Step()
	}
	return &Scheduler{
		plugins:  plugins,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the read loop in the background. The first pass runs
// immediately, subsequent ones on every tick. The loop stops when ctx is
// cancelled or Shutdown is called; cancellation is also checked between
// individual readers inside a pass.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	logger.Info("read loop started",
		zap.Duration("interval", s.interval))

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.readPass(ctx)
		for {
			select {
			case <-ticker.C:
				s.readPass(ctx)
			case <-ctx.Done():
				logger.Info("read loop stopped", zap.Error(ctx.Err()))
				return
			}
		}
	}()
}

func (s *Scheduler) readPass(ctx context.Context) {
	if err := s.plugins.ReadAll(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("read pass finished with errors", zap.Error(err))
	}
}

// Shutdown stops the loop and waits for an in-flight pass to finish. On a
// scheduler that was never started it returns immediately.
func (s *Scheduler) Shutdown() {
	s.once.Do(func() {
		if !s.started {
			return
		}
		s.cancel()
		<-s.done
	})
}
