// Package config defines the daemon configuration and its loading pipeline:
// defaults, then YAML file, then environment, then command-line flags, all
// merged through viper and decoded with mapstructure.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// Config aggregates all daemon settings.
type Config struct {
	Daemon DaemonConfig `yaml:"daemon" mapstructure:"daemon"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DaemonConfig drives the plugin core and the sampling loop.
type DaemonConfig struct {
	// Interval is the sampling step between read passes. It also scales the
	// complaint throttle's backoff.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"required,gt=0"`
	// ModuleDir overrides the compiled-in module search directory.
	ModuleDir string `yaml:"module_dir" mapstructure:"module_dir"`
	// CallbackTimeout bounds every plugin callback invocation. Zero disables
	// the bound.
	CallbackTimeout time.Duration `yaml:"callback_timeout" mapstructure:"callback_timeout" validate:"gte=0"`
	// Hostname is stamped on dispatched values; empty means os.Hostname.
	Hostname string `yaml:"hostname" mapstructure:"hostname"`
	// LoadModules lists the logical module names to load at startup, in
	// order. Order matters: it is the registration and hence execution order.
	LoadModules []string `yaml:"load_modules" mapstructure:"load_modules" validate:"min=1"`
	// Modules carries per-module key/value options, fed through each
	// module's registered config callback after load.
	Modules map[string]map[string]string `yaml:"modules" mapstructure:"modules"`
}

// ServerConfig configures the HTTP endpoint exposing /metrics and /health.
type ServerConfig struct {
	Enable       bool          `yaml:"enable" mapstructure:"enable"`
	Addr         string        `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"required,gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"required,gt=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"required,gt=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level   string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format  string `yaml:"format" mapstructure:"format" validate:"required,oneof=json console"`
	Path    string `yaml:"path" mapstructure:"path" validate:"required"`
	MaxSize int    `yaml:"max_size" mapstructure:"max_size" validate:"required,gt=0"`
	MaxAge  int    `yaml:"max_age" mapstructure:"max_age" validate:"required,gte=0"`
}

// NewDefaultConfig returns a configuration every field of which is usable
// without a config file.
func NewDefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Interval:        10 * time.Second,
			CallbackTimeout: 0,
			LoadModules:     []string{"cpu", "memory", "prometheus"},
			Modules:         map[string]map[string]string{},
		},
		Server: ServerConfig{
			Enable:       true,
			Addr:         "0.0.0.0:9103",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Path:    "./logs",
			MaxSize: 100,
			MaxAge:  7,
		},
	}
}

// LoadConfigWithCli merges flags, the optional --config YAML file and the
// environment into a validated Config.
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	cfg := NewDefaultConfig()
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate runs tag validation plus the per-section business checks.
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	if err := c.Daemon.Validate(); err != nil {
		return err
	}
	if c.Server.Enable {
		if err := c.Server.Validate(); err != nil {
			return err
		}
	}
	return nil
}
