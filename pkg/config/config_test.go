package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruczeks/collectd/pkg/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Log.Path = t.TempDir()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *config.Config {
		cfg := config.NewDefaultConfig()
		cfg.Log.Path = t.TempDir()
		return cfg
	}

	cfg := base()
	cfg.Daemon.Interval = 0
	assert.Error(t, cfg.Validate(), "zero interval")

	cfg = base()
	cfg.Daemon.Interval = 200 * time.Millisecond
	assert.Error(t, cfg.Validate(), "sub-second interval")

	cfg = base()
	cfg.Daemon.LoadModules = nil
	assert.Error(t, cfg.Validate(), "no modules to load")

	cfg = base()
	cfg.Daemon.LoadModules = []string{"cpu", "cpu"}
	assert.Error(t, cfg.Validate(), "duplicate module name")

	cfg = base()
	cfg.Server.Addr = "no-port"
	assert.Error(t, cfg.Validate(), "listen address without port")

	cfg = base()
	cfg.Server.Enable = false
	cfg.Server.Addr = "no-port"
	assert.NoError(t, cfg.Validate(), "disabled server skips address checks")

	cfg = base()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate(), "unknown log level")
}

func TestLoadConfigWithCliMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collectd.yaml")
	yaml := `
daemon:
  interval: 5s
  load_modules: [memory, logfile]
log:
  path: ` + filepath.Join(dir, "logs") + `
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cmd := &cobra.Command{}
	cmd.Flags().String("config", path, "")

	cfg, err := config.LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Daemon.Interval)
	assert.Equal(t, []string{"memory", "logfile"}, cfg.Daemon.LoadModules)
	assert.Equal(t, "info", cfg.Log.Level, "untouched fields keep their defaults")
}
