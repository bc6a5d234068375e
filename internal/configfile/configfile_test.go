package configfile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruczeks/collectd/internal/configfile"
)

func TestApplyFeedsAcceptedKeys(t *testing.T) {
	r := configfile.New(nil)

	got := map[string]string{}
	r.Register("cpu", func(key, value string) error {
		got[key] = value
		return nil
	}, "per_core", "report_idle")

	err := r.Apply("cpu", map[string]string{
		"PER_CORE":    "true", // matching is case-insensitive
		"not_a_key":   "x",    // undeclared keys are skipped, not fatal
		"report_idle": "false",
	})
	require.NoError(t, err)
	assert.Equal(t, "false", got["report_idle"])
	assert.NotContains(t, got, "not_a_key")
}

func TestApplyAggregatesCallbackErrors(t *testing.T) {
	r := configfile.New(nil)

	bad := errors.New("bad value")
	r.Register("mod", func(key, value string) error {
		if key == "broken" {
			return bad
		}
		return nil
	}, "broken", "fine")

	err := r.Apply("mod", map[string]string{"broken": "x", "fine": "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, bad)
}

func TestApplyUnregisteredModuleIsNoOp(t *testing.T) {
	r := configfile.New(nil)
	assert.NoError(t, r.Apply("ghost", map[string]string{"key": "value"}))
}

func TestRegisterReplacesEarlierRegistration(t *testing.T) {
	r := configfile.New(nil)

	first, second := 0, 0
	r.Register("mod", func(string, string) error { first++; return nil }, "k")
	r.Register("mod", func(string, string) error { second++; return nil }, "k")

	require.NoError(t, r.Apply("mod", map[string]string{"k": "v"}))
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}
