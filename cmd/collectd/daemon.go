package collectd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kruczeks/collectd/pkg/config"
)

var defaultCfg = config.NewDefaultConfig()

func initDaemonFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.Duration("daemon.interval", defaultCfg.Daemon.Interval, "sampling interval between read passes")
	f.String("daemon.module_dir", defaultCfg.Daemon.ModuleDir, "module search directory (empty = compiled-in default)")
	f.Duration("daemon.callback_timeout", defaultCfg.Daemon.CallbackTimeout, "per-callback deadline (0 = unbounded)")
	f.String("daemon.hostname", defaultCfg.Daemon.Hostname, "hostname stamped on dispatched values")
	f.StringSlice("daemon.load_modules", defaultCfg.Daemon.LoadModules, "modules to load at startup, in order")

	_ = viper.BindPFlags(f)
}
