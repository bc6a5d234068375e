// Package modules holds the built-in collector and exporter modules that
// ship compiled into the daemon. Each module registers itself with the
// loader's built-in table from an init function and is pulled in by logical
// name, exactly like a shared-object module would be.
package modules

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	regMu      sync.RWMutex
	registerer prometheus.Registerer = prometheus.DefaultRegisterer
)

// SetRegisterer routes the metric registrations of exporter modules (the
// prometheus writer) to reg. Call before loading modules.
func SetRegisterer(reg prometheus.Registerer) {
	regMu.Lock()
	defer regMu.Unlock()
	registerer = reg
}

func getRegisterer() prometheus.Registerer {
	regMu.RLock()
	defer regMu.RUnlock()
	return registerer
}
