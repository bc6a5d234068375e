package plugin

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dispatch resolves the value list's data set by type name and delivers
// (data set, value list) to every registered write callback, in registration
// order. Delivery is fire-and-continue: a writer that fails is logged and
// skipped for this round, it neither stops the fan-out nor fails the call.
// The next read cycle is the implicit retry.
//
// Dispatch fails only when there are no writers at all, or when no data set
// was ever registered under the given type name.
func (c *Context) Dispatch(typ string, vl *ValueList) error {
	c.mu.RLock()
	writers := c.write.snapshot()
	ds, ok := c.datasets.lookup(typ)
	c.mu.RUnlock()

	if len(writers) == 0 {
		return ErrNoWriters
	}
	if !ok {
		return fmt.Errorf("dispatch %q: %w", typ, ErrUnknownType)
	}

	if vl.Host == "" {
		vl.Host = c.hostname
	}
	if vl.Time.IsZero() {
		vl.Time = time.Now()
	}
	if vl.Interval <= 0 {
		vl.Interval = c.step
	}

	for _, w := range writers {
		cb := w.value
		if err := c.invoke("write", w.name, func() error { return cb.Write(ds, vl) }); err != nil {
			c.metrics.WriteFailed(w.name)
			c.log.Warn("write callback failed",
				zap.String("writer", w.name),
				zap.String("type", typ),
				zap.Error(err))
		}
	}

	c.metrics.Dispatched()
	return nil
}
