package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	goplugin "plugin"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultModuleDir is where modules are searched when no override is set.
const DefaultModuleDir = "/usr/lib/collectd"

// moduleSuffix is appended to the logical name before matching so that
// "cpu" cannot match an unrelated "cpufreq" module that shares the prefix.
const moduleSuffix = ".so"

// entrySymbol is the well-known registration entry point every loadable
// module must export: func(*plugin.Context), invoked once right after the
// shared object is opened. Its side effects are the module's registrations.
const entrySymbol = "ModuleRegister"

// RegisterFunc is the signature of a module's registration entry point,
// shared by dynamically loaded and built-in modules alike.
type RegisterFunc func(*Context)

var (
	builtinMu sync.RWMutex
	builtins  = make(map[string]RegisterFunc)
)

// RegisterBuiltin records a compiled-in module under its logical name.
// Built-in modules are the fallback when no shared object matches a Load
// request, which keeps the by-name loading contract alive on platforms
// without dynamic loading support. Call it from the module's init function.
func RegisterBuiltin(name string, fn RegisterFunc) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	builtins[strings.ToLower(name)] = fn
}

func lookupBuiltin(name string) (RegisterFunc, bool) {
	builtinMu.RLock()
	defer builtinMu.RUnlock()
	fn, ok := builtins[strings.ToLower(name)]
	return fn, ok
}

// SetDir overrides the module search directory. An empty path clears the
// override and falls back to DefaultModuleDir.
func (c *Context) SetDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir = dir
}

// Dir returns the effective module search directory.
func (c *Context) Dir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dir == "" {
		return DefaultModuleDir
	}
	return c.dir
}

// Load brings the module with the given logical name into the process. The
// module directory is scanned for regular files whose name starts, case
// insensitively, with name+".so"; candidates are opened in turn and the
// first one whose ModuleRegister symbol resolves and runs wins. A candidate
// that fails to open or lacks the symbol is reported and skipped, so the
// module directory may contain unrelated files. When nothing in the
// directory loads, a built-in module of the same name is used instead.
func (c *Context) Load(name string) error {
	dir := c.Dir()

	candidates, err := scanModuleDir(dir, name)
	if err != nil {
		// A missing directory is still fine if a built-in exists.
		c.log.Warn("cannot scan module directory",
			zap.String("dir", dir), zap.Error(err))
	}

	for _, path := range candidates {
		if err := c.loadFile(path); err != nil {
			c.log.Warn("skipping module candidate",
				zap.String("file", path), zap.Error(err))
			continue
		}
		c.log.Info("module loaded", zap.String("name", name), zap.String("file", path))
		c.metrics.ModuleLoaded()
		return nil
	}

	if fn, ok := lookupBuiltin(name); ok {
		fn(c)
		c.log.Info("built-in module registered", zap.String("name", name))
		c.metrics.ModuleLoaded()
		return nil
	}

	c.metrics.ModuleLoadFailed()
	if err != nil {
		return fmt.Errorf("load %q: %w", name, err)
	}
	return fmt.Errorf("load %q from %s: %w", name, dir, ErrNoModule)
}

// loadFile opens one candidate shared object, resolves its entry point and
// invokes it. The entry point's side effects are calls back into the
// registration API.
func (c *Context) loadFile(path string) error {
	p, err := goplugin.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	sym, err := p.Lookup(entrySymbol)
	if err != nil {
		// Right name, wrong contents. Tolerated, the scan moves on.
		return fmt.Errorf("%w: %v", ErrNoEntryPoint, err)
	}
	reg, ok := sym.(func(*Context))
	if !ok {
		return fmt.Errorf("%w: symbol has type %T", ErrNoEntryPoint, sym)
	}
	reg(c)
	return nil
}

// scanModuleDir lists the regular files in dir whose names match the logical
// module name. Symlinks and other non-regular entries are skipped so the
// loader never follows indirect paths. Matches come back sorted so repeated
// loads try candidates in a stable order.
func scanModuleDir(dir, name string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	filter := name + moduleSuffix
	var matches []string
	for _, e := range entries {
		if !matchesModule(e.Name(), filter) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		fi, err := os.Lstat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		matches = append(matches, path)
	}
	sort.Strings(matches)
	return matches, nil
}

// matchesModule reports whether a directory entry belongs to the module the
// filter describes. The comparison is a case-insensitive prefix match, so
// "cpu.so" matches "cpu.so" and a versioned "cpu.so.1.2" but never
// "cpufreq.so".
func matchesModule(entryName, filter string) bool {
	if len(entryName) < len(filter) {
		return false
	}
	return strings.EqualFold(entryName[:len(filter)], filter)
}
