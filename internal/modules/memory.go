package modules

import (
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kruczeks/collectd/internal/plugin"
)

func init() {
	plugin.RegisterBuiltin("memory", registerMemory)
}

type memoryModule struct {
	ctx      *plugin.Context
	complain plugin.ComplainState
}

func registerMemory(c *plugin.Context) {
	m := &memoryModule{ctx: c}
	_ = c.RegisterDataSet(&plugin.DataSet{
		Type: "memory",
		Sources: []plugin.DataSource{
			{Name: "used", Kind: plugin.Gauge},
			{Name: "free", Kind: plugin.Gauge},
			{Name: "cached", Kind: plugin.Gauge},
			{Name: "buffered", Kind: plugin.Gauge},
		},
	})
	_ = c.RegisterRead("memory", plugin.ReaderFunc(m.read))
}

func (m *memoryModule) read() error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		m.ctx.Complain(zapcore.WarnLevel, &m.complain,
			"memory: reading virtual memory failed", zap.Error(err))
		return err
	}
	m.ctx.Relief(zapcore.InfoLevel, &m.complain, "memory: reading virtual memory succeeded again")

	return m.ctx.Dispatch("memory", &plugin.ValueList{
		Type:   "memory",
		Plugin: "memory",
		Values: []float64{
			float64(vm.Used),
			float64(vm.Free),
			float64(vm.Cached),
			float64(vm.Buffers),
		},
	})
}
