package plugin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// InitAll invokes every registered init callback once, in registration
// order. All callbacks run even when earlier ones fail; the individual
// failures come back aggregated so the caller can decide what is fatal.
func (c *Context) InitAll() error {
	c.mu.RLock()
	entries := c.init.snapshot()
	c.mu.RUnlock()

	var errs error
	for _, e := range entries {
		cb := e.value
		if err := c.invoke("init", e.name, cb.Init); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("init %q: %w", e.name, err))
		}
	}
	return errs
}

// ReadAll invokes the registered read callbacks in registration order,
// checking ctx before each invocation. Cancellation mid-pass skips the
// remaining readers of that pass; readers already run are not rolled back.
// An individual reader cannot be preempted once started.
func (c *Context) ReadAll(ctx context.Context) error {
	c.mu.RLock()
	entries := c.read.snapshot()
	c.mu.RUnlock()

	var errs error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		cb := e.value
		if err := c.invoke("read", e.name, cb.Read); err != nil {
			c.metrics.ReadFailed(e.name)
			errs = multierr.Append(errs, fmt.Errorf("read %q: %w", e.name, err))
		}
	}
	return errs
}

// ShutdownAll invokes every registered shutdown callback once, in
// registration order. Meant to run exactly once at process teardown; a
// failing callback does not keep the remaining ones from shutting down.
func (c *Context) ShutdownAll() error {
	c.mu.RLock()
	entries := c.shutdown.snapshot()
	c.mu.RUnlock()

	var errs error
	for _, e := range entries {
		cb := e.value
		if err := c.invoke("shutdown", e.name, cb.Shutdown); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown %q: %w", e.name, err))
		}
	}
	return errs
}

// invoke runs one callback with panic containment and, when configured, a
// deadline. A panicking module is turned into an error instead of taking
// down the whole phase.
func (c *Context) invoke(class, name string, fn func() error) error {
	run := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s callback panicked: %v", class, r)
				c.log.Error("callback panic recovered",
					zap.String("class", class),
					zap.String("name", name),
					zap.Any("panic", r))
			}
		}()
		return fn()
	}

	if c.callbackTimeout <= 0 {
		return run()
	}

	done := make(chan error, 1)
	go func() { done <- run() }()

	timer := time.NewTimer(c.callbackTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		// The callback goroutine is abandoned; the contract gives the core
		// no way to preempt arbitrary module code.
		return fmt.Errorf("%s after %v: %w", class, c.callbackTimeout, ErrCallbackTimeout)
	}
}
