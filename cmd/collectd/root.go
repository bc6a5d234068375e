// Package collectd assembles and runs the daemon: configuration, logging,
// module loading, the read loop and the HTTP endpoint.
package collectd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kruczeks/collectd/internal/configfile"
	"github.com/kruczeks/collectd/internal/modules"
	"github.com/kruczeks/collectd/internal/plugin"
	"github.com/kruczeks/collectd/internal/scheduler"
	"github.com/kruczeks/collectd/internal/server"
	"github.com/kruczeks/collectd/internal/telemetry"
	"github.com/kruczeks/collectd/pkg/config"
	"github.com/kruczeks/collectd/pkg/logger"
	"github.com/kruczeks/collectd/pkg/signal"
	"github.com/kruczeks/collectd/pkg/util"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "collectd",
	Short: "Modular system metrics daemon with dynamically loaded collector and exporter modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithCli(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := runDaemon(cmd.Context(), cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")
	initDaemonFlags(rootCmd)
	initServerFlags(rootCmd)
	initLogFlags(rootCmd)
}

func runDaemon(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	util.PrintBanner("collectd")
	logger.Info("daemon starting",
		zap.Duration("interval", cfg.Daemon.Interval),
		zap.Strings("modules", cfg.Daemon.LoadModules))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	metrics := telemetry.New(promReg)
	modules.SetRegisterer(promReg)

	confReg := configfile.New(logger.GetLogger())
	plugins := plugin.New(plugin.Options{
		Dir:             cfg.Daemon.ModuleDir,
		Step:            cfg.Daemon.Interval,
		CallbackTimeout: cfg.Daemon.CallbackTimeout,
		Hostname:        cfg.Daemon.Hostname,
		Config:          confReg,
		Logger:          logger.GetLogger(),
		Telemetry:       metrics,
	})

	// Load phase. A module that fails to load is skipped, the daemon runs
	// with whatever did load.
	loaded := make([]string, 0, len(cfg.Daemon.LoadModules))
	for _, name := range cfg.Daemon.LoadModules {
		if err := plugins.Load(name); err != nil {
			logger.Error("module load failed", zap.String("module", name), zap.Error(err))
			continue
		}
		loaded = append(loaded, name)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("none of the configured modules could be loaded")
	}

	// Configuration phase, in load order so callbacks run deterministically.
	for _, name := range loaded {
		opts := cfg.Daemon.Modules[name]
		if len(opts) == 0 {
			continue
		}
		if err := confReg.Apply(name, opts); err != nil {
			logger.Warn("module configuration failed", zap.String("module", name), zap.Error(err))
		}
	}
	for name := range cfg.Daemon.Modules {
		if !contains(loaded, name) {
			logger.Warn("options configured for a module that was not loaded",
				zap.String("module", name))
		}
	}

	// Init phase. Individual failures are surfaced but not fatal; a module
	// that cannot initialize will keep failing its reads and complain there.
	if err := plugins.InitAll(); err != nil {
		logger.Error("some init callbacks failed", zap.Error(err))
	}

	sched := scheduler.New(plugins, cfg.Daemon.Interval)
	sched.Start(ctx)

	var httpServer *server.HTTPServer
	if cfg.Server.Enable {
		httpServer = server.NewHTTPServer(cfg.Server, promReg)
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("start HTTP server: %w", err)
		}
	}

	signal.WaitForShutdown(func() error {
		sched.Shutdown()
		var errs error
		errs = multierr.Append(errs, plugins.ShutdownAll())
		if httpServer != nil {
			errs = multierr.Append(errs, httpServer.Shutdown())
		}
		return errs
	})
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
