package plugin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruczeks/collectd/internal/plugin"
)

func TestInitAllRunsInRegistrationOrder(t *testing.T) {
	c := plugin.New(plugin.Options{})

	var order []string
	for _, name := range []string{"one", "two", "three"} {
		name := name
		require.NoError(t, c.RegisterInit(name, plugin.InitializerFunc(func() error {
			order = append(order, name)
			return nil
		})))
	}

	require.NoError(t, c.InitAll())
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestInitAllAggregatesFailures(t *testing.T) {
	c := plugin.New(plugin.Options{})

	var order []string
	boom := errors.New("boom")
	require.NoError(t, c.RegisterInit("bad", plugin.InitializerFunc(func() error {
		order = append(order, "bad")
		return boom
	})))
	require.NoError(t, c.RegisterInit("good", plugin.InitializerFunc(func() error {
		order = append(order, "good")
		return nil
	})))

	err := c.InitAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"bad", "good"}, order, "a failing init must not stop the rest")
}

func TestReadAllHonorsCancellationBeforeEachCallback(t *testing.T) {
	c := plugin.New(plugin.Options{})
	ctx, cancel := context.WithCancel(context.Background())

	var ran []string
	reader := func(name string) plugin.Reader {
		return plugin.ReaderFunc(func() error {
			ran = append(ran, name)
			if name == "B" {
				cancel()
			}
			return nil
		})
	}
	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, c.RegisterRead(name, reader(name)))
	}

	err := c.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A", "B"}, ran,
		"cancel raised inside B must skip C and D, not roll back A and B")
}

func TestReadAllAlreadyCancelledRunsNothing(t *testing.T) {
	c := plugin.New(plugin.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := 0
	require.NoError(t, c.RegisterRead("r", plugin.ReaderFunc(func() error {
		ran++
		return nil
	})))

	err := c.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran)
}

func TestReadAllEmptyRegistryIsNoOp(t *testing.T) {
	c := plugin.New(plugin.Options{})
	assert.NoError(t, c.ReadAll(context.Background()))
	assert.NoError(t, c.InitAll())
	assert.NoError(t, c.ShutdownAll())
}

func TestShutdownAllRunsInRegistrationOrder(t *testing.T) {
	c := plugin.New(plugin.Options{})

	var order []string
	for _, name := range []string{"x", "y"} {
		name := name
		require.NoError(t, c.RegisterShutdown(name, plugin.ShutdownerFunc(func() error {
			order = append(order, name)
			return nil
		})))
	}

	require.NoError(t, c.ShutdownAll())
	assert.Equal(t, []string{"x", "y"}, order)
}

func TestCallbackPanicIsContained(t *testing.T) {
	c := plugin.New(plugin.Options{})

	ran := false
	require.NoError(t, c.RegisterInit("panics", plugin.InitializerFunc(func() error {
		panic("module bug")
	})))
	require.NoError(t, c.RegisterInit("fine", plugin.InitializerFunc(func() error {
		ran = true
		return nil
	})))

	err := c.InitAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.True(t, ran, "a panicking module must not take the phase down")
}

func TestCallbackTimeout(t *testing.T) {
	c := plugin.New(plugin.Options{CallbackTimeout: 50 * time.Millisecond})

	release := make(chan struct{})
	defer close(release)
	require.NoError(t, c.RegisterRead("hangs", plugin.ReaderFunc(func() error {
		<-release
		return nil
	})))

	err := c.ReadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrCallbackTimeout)
}

func TestRegistrationValidation(t *testing.T) {
	c := plugin.New(plugin.Options{})

	assert.ErrorIs(t, c.RegisterInit("", plugin.InitializerFunc(func() error { return nil })), plugin.ErrEmptyName)
	assert.ErrorIs(t, c.RegisterRead("r", nil), plugin.ErrNilCallback)
	assert.ErrorIs(t, c.RegisterDataSet(nil), plugin.ErrNilCallback)
	assert.ErrorIs(t, c.RegisterDataSet(&plugin.DataSet{}), plugin.ErrEmptyName)
}
