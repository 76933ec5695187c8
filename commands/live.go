package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	liveapp "github.com/penwyp/go-timeline-view/internal/application/live"
	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/observability"
	"github.com/penwyp/go-timeline-view/internal/presentation/display"
	"github.com/penwyp/go-timeline-view/internal/presentation/formatter"
	"github.com/penwyp/go-timeline-view/internal/util"
	"github.com/spf13/cobra"
)

var (
	liveViewFile    string
	liveFollowFile  string
	liveInterval    time.Duration
	liveMetricsAddr string
	liveQuiet       bool

	// openLiveSource picks the input of the live loop.
	openLiveSource = defaultLiveSource
)

var liveCmd = &cobra.Command{
	Use:   "live [resource...]",
	Short: "Track a live stream of JSON reports",
	Long: `Reads newline-delimited reports {"channel", "time", "data"} from stdin or a
followed file, polling for new input on a fixed cadence. Malformed lines and
reports for other channels are dropped.

A status table is redrawn on stderr whenever an axis range grows. When the
input ends, the accumulated series are written with the output format.`,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().StringVar(&liveViewFile, "view", "",
		"View file listing the resources to track")
	liveCmd.Flags().StringVar(&liveFollowFile, "follow", "",
		"Follow a growing file instead of reading stdin")
	liveCmd.Flags().DurationVar(&liveInterval, "interval", 200*time.Millisecond,
		"Poll interval")
	liveCmd.Flags().StringVar(&liveMetricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g., :9090)")
	liveCmd.Flags().BoolVarP(&liveQuiet, "quiet", "q", false,
		"Do not draw the status table")
}

func runLive(cmd *cobra.Command, args []string) error {
	resources, err := liveResources(args)
	if err != nil {
		return err
	}
	f, err := formatter.New(appConfig.Output.Format)
	if err != nil {
		return err
	}

	interval := appConfig.Live.Interval
	if flagChanged(cmd, "interval") {
		interval = liveInterval
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	metricsAddr := appConfig.Metrics.Addr
	if flagChanged(cmd, "metrics-addr") {
		metricsAddr = liveMetricsAddr
	}

	src, err := openLiveSource(liveFollowFile)
	if err != nil {
		return err
	}
	defer src.Close()

	agg := aggregator.New(resources, aggregator.Options{
		XMinBuffer: appConfig.Live.XMinBuffer,
		XMaxBuffer: appConfig.Live.XMaxBuffer,
		YBuffer:    appConfig.Live.YBuffer,
	})
	rc := liveapp.NewRefreshController(src, agg, interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var collector *observability.Collector
	if metricsAddr != "" {
		if collector, err = observability.NewCollector(nil); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		rc.SetObserver(collector)
		go serveMetrics(ctx, collector, metricsAddr)
	}

	if !liveQuiet {
		rc.SetDisplay(display.NewLiveDisplay(cmd.ErrOrStderr(), display.DisplayConfig{
			Width:  util.TerminalWidth(os.Stderr),
			Redraw: util.IsTerminal(os.Stderr),
		}))
	}

	util.LogInfo(fmt.Sprintf("Tracking %d resources", len(resources)))
	start := time.Now()
	if err := rc.Run(ctx); err != nil {
		return err
	}
	collector.ObserveRender("live", time.Since(start))

	return f.Format(cmd.OutOrStdout(), agg.Rendering())
}

// liveResources returns the positional resources followed by those of the
// view file.
func liveResources(args []string) ([]string, error) {
	resources := append([]string(nil), args...)
	if liveViewFile != "" {
		view, err := parser.LoadView(expandPath(liveViewFile))
		if err != nil {
			return nil, err
		}
		resources = append(resources, view.Names()...)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("no resources to track: name them as arguments or pass --view")
	}
	return resources, nil
}

func defaultLiveSource(follow string) (liveapp.Source, error) {
	if follow != "" {
		return liveapp.NewFileFollower(expandPath(follow))
	}
	if util.IsTerminal(os.Stdin) {
		util.LogWarn("Reading live reports from a terminal; pipe a report stream into stdin or use --follow")
	}
	return liveapp.NewStdinSource()
}

func serveMetrics(ctx context.Context, collector *observability.Collector, addr string) {
	util.LogInfo(fmt.Sprintf("Serving metrics on %s/metrics", addr))
	if err := collector.Serve(ctx, addr); err != nil {
		util.LogError("Metrics server stopped", util.Err(err))
	}
}
