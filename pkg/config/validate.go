package config

import (
	"fmt"
	"net"
	"os"
	"time"
)

// Validate applies the daemon checks that tags cannot express.
func (d *DaemonConfig) Validate() error {
	if d.Interval < time.Second {
		return fmt.Errorf("daemon.interval must be at least 1s, got %s", d.Interval)
	}
	seen := make(map[string]bool, len(d.LoadModules))
	for _, name := range d.LoadModules {
		if name == "" {
			return fmt.Errorf("daemon.load_modules contains an empty name")
		}
		if seen[name] {
			return fmt.Errorf("daemon.load_modules lists %q twice", name)
		}
		seen[name] = true
	}
	if d.ModuleDir != "" {
		if fi, err := os.Stat(d.ModuleDir); err == nil && !fi.IsDir() {
			return fmt.Errorf("daemon.module_dir %s is not a directory", d.ModuleDir)
		}
	}
	return nil
}

// Validate checks that the listen address actually splits into host and port.
func (s *ServerConfig) Validate() error {
	host, port, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("server.addr %q: %w", s.Addr, err)
	}
	if port == "" {
		return fmt.Errorf("server.addr %q has no port", s.Addr)
	}
	if host != "" && net.ParseIP(host) == nil && host != "localhost" {
		return fmt.Errorf("server.addr host %q is neither an IP nor localhost", host)
	}
	return nil
}
