package plugin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kruczeks/collectd/internal/plugin"
)

func newComplaintContext(t *testing.T, step time.Duration) (*plugin.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	c := plugin.New(plugin.Options{Step: step, Logger: zap.New(core)})
	return c, logs
}

func TestComplainBackoffSequence(t *testing.T) {
	c, logs := newComplaintContext(t, 10*time.Second)
	var s plugin.ComplainState

	// First complaint always logs and starts the backoff at one step.
	c.Complain(zapcore.WarnLevel, &s, "sensor failed")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 10, s.Interval)
	assert.Equal(t, 1, s.Delay)

	// Second complaint falls inside the delay window: suppressed.
	c.Complain(zapcore.WarnLevel, &s, "sensor failed")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 0, s.Delay)

	// Third complaint logs again and doubles the interval.
	c.Complain(zapcore.WarnLevel, &s, "sensor failed")
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 20, s.Interval)
	assert.Equal(t, 2, s.Delay)
}

func TestComplainIntervalClampsAtOneDay(t *testing.T) {
	c, _ := newComplaintContext(t, 10*time.Second)
	var s plugin.ComplainState

	for i := 0; i < 100000; i++ {
		c.Complain(zapcore.WarnLevel, &s, "still failing")
		require.LessOrEqual(t, s.Interval, 86400, "interval must never exceed one day")
	}
	assert.Equal(t, 86400, s.Interval)
}

func TestReliefResetsBackoffAndLogsOnce(t *testing.T) {
	c, logs := newComplaintContext(t, 10*time.Second)
	var s plugin.ComplainState

	c.Complain(zapcore.WarnLevel, &s, "sensor failed")
	require.Equal(t, 1, logs.Len())

	c.Relief(zapcore.InfoLevel, &s, "sensor recovered")
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 0, s.Interval)

	// Already relieved: nothing left to announce.
	c.Relief(zapcore.InfoLevel, &s, "sensor recovered")
	assert.Equal(t, 2, logs.Len())

	// The next complaint logs immediately and restarts from the minimum.
	c.Complain(zapcore.WarnLevel, &s, "sensor failed")
	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, 10, s.Interval)
}

func TestReliefWithoutComplaintIsSilent(t *testing.T) {
	c, logs := newComplaintContext(t, 10*time.Second)
	var s plugin.ComplainState

	c.Relief(zapcore.InfoLevel, &s, "nothing happened")
	assert.Zero(t, logs.Len())
}

func TestComplainLogsAtRequestedLevel(t *testing.T) {
	c, logs := newComplaintContext(t, time.Second)
	var s plugin.ComplainState

	c.Complain(zapcore.ErrorLevel, &s, "hard failure")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "hard failure", entries[0].Message)
}
