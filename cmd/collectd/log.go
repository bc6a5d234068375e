package collectd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initLogFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.String("log.level", defaultCfg.Log.Level, "log level [debug,info,warn,error]")
	f.String("log.format", defaultCfg.Log.Format, "log format [console,json]")
	f.String("log.path", defaultCfg.Log.Path, "log file directory")
	f.Int("log.max_size", defaultCfg.Log.MaxSize, "max size of a single log file (MB)")
	f.Int("log.max_age", defaultCfg.Log.MaxAge, "log retention (days)")

	_ = viper.BindPFlags(f)
}
