// Package configfile fans per-module configuration keys out to the modules
// that registered for them. Modules declare the keys they accept at load
// time; the daemon feeds each module's key/value options through its
// callback once all modules are loaded, before the init phase.
package configfile

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Callback receives one configuration key/value pair for the module that
// registered it.
type Callback func(key, value string) error

type registration struct {
	callback Callback
	keys     []string
}

// Registry maps module names to their configuration callbacks and accepted
// keys. Registering a name again replaces the earlier registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
	log     *zap.Logger
}

// New creates an empty registry. A nil logger is replaced with a nop one.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]registration),
		log:     log,
	}
}

// Register stores the configuration callback for a module together with the
// keys it accepts. Key matching in Apply is case-insensitive.
func (r *Registry) Register(name string, cb Callback, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = registration{callback: cb, keys: keys}
}

// Apply feeds the given options to the named module's callback, one pair at
// a time. Keys the module never declared are logged and skipped rather than
// failing the whole module. A module that registered no config callback
// simply ignores its options.
func (r *Registry) Apply(name string, options map[string]string) error {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		if len(options) > 0 {
			r.log.Warn("module accepts no configuration, options ignored",
				zap.String("module", name), zap.Int("options", len(options)))
		}
		return nil
	}

	var errs error
	for key, value := range options {
		if !acceptsKey(reg.keys, key) {
			r.log.Warn("module does not support option",
				zap.String("module", name), zap.String("key", key))
			continue
		}
		if err := reg.callback(key, value); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("option %q: %w", key, err))
		}
	}
	if errs != nil {
		return fmt.Errorf("configure %q: %w", name, errs)
	}
	return nil
}

func acceptsKey(keys []string, key string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
