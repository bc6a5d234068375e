package modules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kruczeks/collectd/internal/plugin"
)

func init() {
	plugin.RegisterBuiltin("cpu", registerCPU)
}

type cpuModule struct {
	ctx      *plugin.Context
	perCore  bool
	complain plugin.ComplainState
}

func registerCPU(c *plugin.Context) {
	m := &cpuModule{ctx: c}
	_ = c.RegisterDataSet(&plugin.DataSet{
		Type: "cpu",
		Sources: []plugin.DataSource{
			{Name: "user", Kind: plugin.Counter},
			{Name: "system", Kind: plugin.Counter},
			{Name: "idle", Kind: plugin.Counter},
		},
	})
	_ = c.RegisterConfig("cpu", m.configure, "per_core")
	_ = c.RegisterRead("cpu", plugin.ReaderFunc(m.read))
}

func (m *cpuModule) configure(key, value string) error {
	switch strings.ToLower(key) {
	case "per_core":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("per_core: %w", err)
		}
		m.perCore = b
	}
	return nil
}

func (m *cpuModule) read() error {
	times, err := cpu.Times(m.perCore)
	if err != nil {
		m.ctx.Complain(zapcore.WarnLevel, &m.complain,
			"cpu: reading cpu times failed", zap.Error(err))
		return err
	}
	m.ctx.Relief(zapcore.InfoLevel, &m.complain, "cpu: reading cpu times succeeded again")

	for i, t := range times {
		vl := &plugin.ValueList{
			Type:   "cpu",
			Plugin: "cpu",
			Values: []float64{t.User, t.System, t.Idle},
		}
		if m.perCore {
			vl.PluginInstance = strconv.Itoa(i)
		}
		if err := m.ctx.Dispatch("cpu", vl); err != nil {
			return err
		}
	}
	return nil
}
