package collectd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initServerFlags(root *cobra.Command) {
	f := root.PersistentFlags()

	f.Bool("server.enable", defaultCfg.Server.Enable, "expose /metrics and /health over HTTP")
	f.String("server.addr", defaultCfg.Server.Addr, "HTTP listen address")
	f.Duration("server.read_timeout", defaultCfg.Server.ReadTimeout, "HTTP read timeout")
	f.Duration("server.write_timeout", defaultCfg.Server.WriteTimeout, "HTTP write timeout")
	f.Duration("server.idle_timeout", defaultCfg.Server.IdleTimeout, "HTTP idle connection timeout")

	_ = viper.BindPFlags(f)
}
