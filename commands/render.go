package commands

import (
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-timeline-view/internal/application/batch"
	"github.com/penwyp/go-timeline-view/internal/data/source"
	"github.com/penwyp/go-timeline-view/internal/observability"
	"github.com/penwyp/go-timeline-view/internal/presentation/formatter"
	"github.com/penwyp/go-timeline-view/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	renderPlanFile    string
	renderInputFormat string
	renderMetricsFile string
)

var renderCmd = &cobra.Command{
	Use:   "render <csv-file> <view-file>",
	Short: "Render every resource of a view from a CSV file",
	Long: `Reads a telemetry CSV in events format (time,channel,data) or timelines
format (time,<resource>...) and interprets each resource of the view.

The format is inferred from a *events.csv or *timelines.csv file name unless
--input-format is given; other names are read as events with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderPlanFile, "plan", "",
		"Plan file whose start and end fix the time window")
	renderCmd.Flags().StringVar(&renderInputFormat, "input-format", "auto",
		"CSV layout (auto, events, timelines)")
	renderCmd.Flags().StringVar(&renderMetricsFile, "metrics-file", "",
		"Write render metrics to this file in Prometheus textfile format")
}

func runRender(cmd *cobra.Command, args []string) error {
	inputFormat, err := source.ParseFormat(renderInputFormat)
	if err != nil {
		return err
	}
	f, err := formatter.New(appConfig.Output.Format)
	if err != nil {
		return err
	}

	o := batch.New(&batch.Config{
		CSVFile:     expandPath(args[0]),
		ViewFile:    expandPath(args[1]),
		PlanFile:    planPath(),
		InputFormat: inputFormat,
	})

	metricsFile := appConfig.Metrics.File
	if flagChanged(cmd, "metrics-file") {
		metricsFile = expandPath(renderMetricsFile)
	}
	var collector *observability.Collector
	if metricsFile != "" {
		// A private registry keeps Go runtime collectors out of the file.
		if collector, err = observability.NewCollector(prometheus.NewRegistry()); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		o.SetObserver(collector)
	}

	rendering, err := o.Run(cmd.Context())
	if err != nil {
		return err
	}

	if collector != nil {
		if err := ensureDir(filepath.Dir(metricsFile)); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
		if err := collector.WriteTextfile(metricsFile); err != nil {
			return err
		}
		util.LogInfo("Wrote render metrics", util.String("file", metricsFile))
	}

	// The table prints warnings itself and JSON carries them.
	if appConfig.Output.Format == formatter.FormatCSV {
		for _, warning := range rendering.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
		}
	}
	return f.Format(cmd.OutOrStdout(), rendering)
}

func planPath() string {
	if renderPlanFile == "" {
		return ""
	}
	return expandPath(renderPlanFile)
}
