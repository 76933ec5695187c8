package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-timeline-view/internal/config"
	"github.com/penwyp/go-timeline-view/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Configuration
	configFile string
	appConfig  = config.Default()

	// Output related
	outputFormat string
	timezone     string

	rootCmd = &cobra.Command{
		Use:   "go-timeline-view",
		Short: "Spacecraft resource timeline viewer",
		Long: `go-timeline-view reconstructs typed time series from simulation telemetry.

Resources are interpreted by kind: continuous lines, discrete and enum step
functions, linear polynomial segments and spans laid out in lanes.

Examples:
  go-timeline-view render run_events.csv view.json              # Summarize every resource of the view
  go-timeline-view render run_timelines.csv view.yaml -o json   # Emit drawable series as JSON
  go-timeline-view render data.csv view.json --input-format events --plan plan.json
  simulation | go-timeline-view live battery_soc power_draw     # Track a live report stream
  go-timeline-view live --view view.json --follow reports.jsonl --metrics-addr :9090`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file (default "+config.DefaultLogFile+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "UTC",
		"Timezone for displayed times (e.g., UTC, Local, America/Los_Angeles)")
}

// setup loads configuration and starts logging before any subcommand runs.
// Flags given on the command line override the config file.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if flagChanged(cmd, "log-file") {
		cfg.Log.File = expandPath(logFile)
	}
	if flagChanged(cmd, "output") {
		cfg.Output.Format = outputFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := cfg.Log.Level
	if debug {
		logLevel = "debug"
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, cfg.Log.File, util.LogFormat(cfg.Log.Format), debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	appConfig = cfg
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func expandPath(path string) string {
	return config.ExpandPath(path)
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
