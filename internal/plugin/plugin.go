// Package plugin is the registration and dispatch core of the daemon.
//
// Collector and exporter modules register typed callbacks (init, read, write,
// shutdown, data set) with a Context; the loader brings modules in by logical
// name, the lifecycle runners drive the registered callbacks in phases, and
// the dispatcher routes every produced value list to all registered writers.
package plugin

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kruczeks/collectd/internal/configfile"
	"github.com/kruczeks/collectd/internal/telemetry"
)

// Options configures a Context. The zero value is usable: default module
// directory, ten second step, unbounded callbacks, no-op logging.
type Options struct {
	// Dir overrides the compile-time default module directory.
	Dir string
	// Step is the sampling interval; it also scales the complaint throttle.
	Step time.Duration
	// CallbackTimeout bounds each callback invocation. Zero means unbounded,
	// which matches the historic behavior: a hanging module hangs its phase.
	CallbackTimeout time.Duration
	// Hostname is stamped on dispatched value lists that carry none.
	// Defaults to os.Hostname.
	Hostname string
	// Config receives register-config delegations. Optional.
	Config *configfile.Registry
	// Logger for loader and dispatch diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
	// Telemetry counts loads, dispatches and failures. Optional.
	Telemetry *telemetry.Metrics
}

// Context owns the five callback registries and the module directory
// override. It is the explicit, process-wide instance that collectd kept in
// globals: created once at startup, passed to every module, loader and
// runner, and torn down only by process exit.
//
// Registration normally happens during the load phase, before the first read
// or dispatch; the lock below makes the overlap safe anyway since nothing
// structurally enforces that phase discipline.
type Context struct {
	mu       sync.RWMutex
	init     registry[Initializer]
	read     registry[Reader]
	write    registry[Writer]
	shutdown registry[Shutdowner]
	datasets registry[*DataSet]
	dir      string

	step            time.Duration
	callbackTimeout time.Duration
	hostname        string
	config          *configfile.Registry
	log             *zap.Logger
	metrics         *telemetry.Metrics
}

const defaultStep = 10 * time.Second

// New creates the plugin context for this process.
func New(opts Options) *Context {
	c := &Context{
		dir:             opts.Dir,
		step:            opts.Step,
		callbackTimeout: opts.CallbackTimeout,
		hostname:        opts.Hostname,
		config:          opts.Config,
		log:             opts.Logger,
		metrics:         opts.Telemetry,
	}
	if c.step <= 0 {
		c.step = defaultStep
	}
	if c.hostname == "" {
		if h, err := os.Hostname(); err == nil {
			c.hostname = h
		}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// RegisterInit registers an init callback under name. Registering a name
// that already exists replaces the callback and keeps its position.
func (c *Context) RegisterInit(name string, cb Initializer) error {
	if err := checkRegistration(name, cb == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.init.register(name, cb)
	return nil
}

// RegisterRead registers a read callback under name.
func (c *Context) RegisterRead(name string, cb Reader) error {
	if err := checkRegistration(name, cb == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.read.register(name, cb)
	return nil
}

// RegisterWrite registers a write callback under name.
func (c *Context) RegisterWrite(name string, cb Writer) error {
	if err := checkRegistration(name, cb == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write.register(name, cb)
	return nil
}

// RegisterShutdown registers a shutdown callback under name.
func (c *Context) RegisterShutdown(name string, cb Shutdowner) error {
	if err := checkRegistration(name, cb == nil); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown.register(name, cb)
	return nil
}

// RegisterDataSet registers a data set, keyed by its own type name.
func (c *Context) RegisterDataSet(ds *DataSet) error {
	if ds == nil {
		return ErrNilCallback
	}
	if err := checkRegistration(ds.Type, false); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets.register(ds.Type, ds)
	return nil
}

// RegisterConfig hands a module's configuration callback and its accepted
// keys to the configuration collaborator. A context built without one
// silently drops the registration, mirroring a daemon run without a config
// file.
func (c *Context) RegisterConfig(name string, cb configfile.Callback, keys ...string) error {
	if err := checkRegistration(name, cb == nil); err != nil {
		return err
	}
	if c.config == nil {
		c.log.Debug("no config registry attached, dropping config registration",
			zap.String("plugin", name))
		return nil
	}
	c.config.Register(name, cb, keys...)
	return nil
}

// LookupDataSet resolves a registered data set by type name.
func (c *Context) LookupDataSet(typ string) (*DataSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.datasets.lookup(typ)
}

// Step reports the sampling step the context was built with.
func (c *Context) Step() time.Duration { return c.step }

func checkRegistration(name string, nilCallback bool) error {
	if name == "" {
		return ErrEmptyName
	}
	if nilCallback {
		return ErrNilCallback
	}
	return nil
}
