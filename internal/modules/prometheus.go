package modules

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kruczeks/collectd/internal/plugin"
)

func init() {
	plugin.RegisterBuiltin("prometheus", registerPrometheus)
}

// prometheusModule exports every dispatched value list as Prometheus
// samples. Counter sources are exposed with their raw value on a gauge, the
// usual shape for a bridge that merely relays externally maintained totals.
type prometheusModule struct {
	values *prometheus.GaugeVec
}

func registerPrometheus(c *plugin.Context) {
	m := &prometheusModule{
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "collectd",
			Name:      "value",
			Help:      "Most recent value per data source, as dispatched.",
		}, []string{"type", "type_instance", "plugin", "plugin_instance", "ds", "kind"}),
	}
	_ = c.RegisterInit("prometheus", plugin.InitializerFunc(m.initialize))
	_ = c.RegisterWrite("prometheus", plugin.WriterFunc(m.write))
	_ = c.RegisterShutdown("prometheus", plugin.ShutdownerFunc(m.shutdown))
}

func (m *prometheusModule) initialize() error {
	if err := getRegisterer().Register(m.values); err != nil {
		return fmt.Errorf("prometheus: register value vector: %w", err)
	}
	return nil
}

func (m *prometheusModule) write(ds *plugin.DataSet, vl *plugin.ValueList) error {
	for i, src := range ds.Sources {
		if i >= len(vl.Values) {
			return fmt.Errorf("prometheus: %q batch has %d values, data set wants %d",
				vl.Type, len(vl.Values), len(ds.Sources))
		}
		m.values.WithLabelValues(
			vl.Type, vl.TypeInstance, vl.Plugin, vl.PluginInstance,
			src.Name, src.Kind.String(),
		).Set(vl.Values[i])
	}
	return nil
}

func (m *prometheusModule) shutdown() error {
	m.values.Reset()
	return nil
}
