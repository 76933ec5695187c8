// Package config loads application settings from an optional YAML file and
// TIMELINE_VIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is read when no --config is given and it exists.
	DefaultConfigFile = "~/.go-timeline-view/config.yaml"
	// DefaultLogFile is where logs go unless log.file overrides it.
	DefaultLogFile = "~/.go-timeline-view/logs/app.log"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TIMELINE_VIEW"
)

// Config holds every setting.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Live    LiveConfig    `mapstructure:"live"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// LiveConfig controls the live poll loop and axis padding.
type LiveConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	XMinBuffer float64       `mapstructure:"x_min_buffer"`
	XMaxBuffer float64       `mapstructure:"x_max_buffer"`
	YBuffer    float64       `mapstructure:"y_buffer"`
}

// OutputConfig selects the output formatter.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// MetricsConfig enables the Prometheus endpoint of live mode when Addr is
// set. File receives batch render metrics in the textfile exposition format.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
	File string `mapstructure:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			File:   DefaultLogFile,
			Format: "text",
		},
		Live: LiveConfig{
			Interval:   200 * time.Millisecond,
			XMinBuffer: 0,
			XMaxBuffer: 0.1,
			YBuffer:    0.1,
		},
		Output: OutputConfig{Format: "table"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("live.interval", d.Live.Interval.String())
	v.SetDefault("live.x_min_buffer", d.Live.XMinBuffer)
	v.SetDefault("live.x_max_buffer", d.Live.XMaxBuffer)
	v.SetDefault("live.y_buffer", d.Live.YBuffer)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.file", d.Metrics.File)
}

// Load reads settings. An explicit path must exist; otherwise the default
// file is read when present. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		if candidate := ExpandPath(DefaultConfigFile); fileExists(candidate) {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(ExpandPath(file))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", file)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Log.File = ExpandPath(cfg.Log.File)
	cfg.Metrics.File = ExpandPath(cfg.Metrics.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the commands cannot run with.
func (c *Config) Validate() error {
	if c.Live.Interval <= 0 {
		return fmt.Errorf("live.interval must be positive, got %s", c.Live.Interval)
	}
	if c.Live.XMinBuffer < 0 || c.Live.XMaxBuffer < 0 || c.Live.YBuffer < 0 {
		return fmt.Errorf("live buffers must not be negative")
	}
	switch c.Output.Format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("invalid output format '%s': must be table, json or csv", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format '%s': must be text or json", c.Log.Format)
	}
	return nil
}

// ExpandPath resolves a leading ~/ and makes path absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
