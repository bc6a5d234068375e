// Package signal blocks the daemon's main goroutine until an exit signal
// arrives, then runs the shutdown sequence under a deadline.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kruczeks/collectd/pkg/logger"
)

const shutdownDeadline = 10 * time.Second

// WaitForShutdown waits for SIGINT or SIGTERM and then executes
// shutdownFunc. The shutdown phase invokes arbitrary module callbacks, so it
// runs under a deadline; a module that hangs in shutdown is abandoned.
func WaitForShutdown(shutdownFunc func() error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("daemon running, waiting for SIGINT/SIGTERM")

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- shutdownFunc()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("shutdown finished with errors", zap.Error(err))
		} else {
			logger.Info("shutdown completed")
		}
	case <-ctx.Done():
		logger.Error("shutdown timed out", zap.Error(ctx.Err()))
	}
}
