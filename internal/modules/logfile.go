package modules

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kruczeks/collectd/internal/plugin"
	"github.com/kruczeks/collectd/pkg/logger"
)

func init() {
	plugin.RegisterBuiltin("logfile", registerLogfile)
}

// logfileModule writes every dispatched value list to the daemon log. Mostly
// useful for debugging a module pipeline without a real exporter attached.
type logfileModule struct {
	debug bool
}

func registerLogfile(c *plugin.Context) {
	m := &logfileModule{}
	_ = c.RegisterConfig("logfile", m.configure, "debug")
	_ = c.RegisterWrite("logfile", plugin.WriterFunc(m.write))
}

func (m *logfileModule) configure(key, value string) error {
	if strings.EqualFold(key, "debug") {
		m.debug = strings.EqualFold(value, "true")
	}
	return nil
}

func (m *logfileModule) write(ds *plugin.DataSet, vl *plugin.ValueList) error {
	fields := []zap.Field{
		zap.String("type", vl.Type),
		zap.String("plugin", vl.Plugin),
		zap.String("host", vl.Host),
		zap.Time("time", vl.Time),
		zap.Float64s("values", vl.Values),
	}
	if vl.TypeInstance != "" {
		fields = append(fields, zap.String("type_instance", vl.TypeInstance))
	}
	if vl.PluginInstance != "" {
		fields = append(fields, zap.String("plugin_instance", vl.PluginInstance))
	}
	if m.debug {
		names := make([]string, len(ds.Sources))
		for i, src := range ds.Sources {
			names[i] = src.Name
		}
		fields = append(fields, zap.Strings("sources", names))
	}
	logger.Info("values dispatched", fields...)
	return nil
}
