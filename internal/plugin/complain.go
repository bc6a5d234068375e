package plugin

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// complainCeiling caps the backoff interval at one day, in seconds.
const complainCeiling = 86400

// ComplainState is the per-call-site state of the complaint throttle. The
// caller owns it, typically as a field next to the condition being watched,
// and passes it to every Complain and Relief call for that condition.
// The zero value is ready to use.
type ComplainState struct {
	// Interval is the current backoff period in seconds. Zero means the
	// condition has never complained, or was relieved.
	Interval int
	// Delay counts the complaints still to be suppressed before the next
	// one is logged.
	Delay int
}

// Complain emits msg at the given level, rate limited per state. The first
// complaint always logs; each repeat doubles the silence window, starting at
// one sampling step and capped at one day, so a flapping condition yields
// logarithmic-in-time log volume.
func (c *Context) Complain(level zapcore.Level, s *ComplainState, msg string, fields ...zap.Field) {
	if s.Delay > 0 {
		s.Delay--
		c.metrics.ComplaintSuppressed()
		return
	}

	step := int(c.step.Seconds())
	if step <= 0 {
		step = 1
	}

	if s.Interval < step {
		s.Interval = step
	} else {
		s.Interval *= 2
	}
	if s.Interval > complainCeiling {
		s.Interval = complainCeiling
	}
	s.Delay = s.Interval / step

	c.log.Log(level, msg, fields...)
}

// Relief announces that the condition tracked by s has cleared. It logs msg
// and resets the backoff so the next complaint is reported immediately. With
// no complaint outstanding it does nothing, so call sites may report relief
// unconditionally on every success.
func (c *Context) Relief(level zapcore.Level, s *ComplainState, msg string, fields ...zap.Field) {
	if s.Interval == 0 {
		return
	}
	s.Interval = 0
	s.Delay = 0
	c.log.Log(level, msg, fields...)
}
