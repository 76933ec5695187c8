// Package observability exposes Prometheus metrics for live streams and
// renders.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
)

// Collector bundles the metrics recorded by the live loop and the batch
// renderer.
type Collector struct {
	gatherer prometheus.Gatherer

	Lines          *prometheus.CounterVec
	Samples        *prometheus.CounterVec
	Ticks          prometheus.Counter
	Rescales       *prometheus.CounterVec
	PendingBytes   prometheus.Gauge
	RenderDuration *prometheus.HistogramVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice against the same registry
// reuses the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	lines, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_live_lines_total",
		Help: "Live stream lines processed, labeled by result (accepted or dropped).",
	}, []string{"result"}), "timeline_live_lines_total")
	if err != nil {
		return nil, err
	}

	samples, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_live_samples_total",
		Help: "Samples accumulated per resource.",
	}, []string{"resource"}), "timeline_live_samples_total")
	if err != nil {
		return nil, err
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_live_ticks_total",
		Help: "Completed poll ticks.",
	}), "timeline_live_ticks_total")
	if err != nil {
		return nil, err
	}

	rescales, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_axis_rescales_total",
		Help: "Axis limit changes, labeled by axis (x or y).",
	}, []string{"axis"}), "timeline_axis_rescales_total")
	if err != nil {
		return nil, err
	}

	pending, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timeline_live_pending_bytes",
		Help: "Bytes of unterminated input carried to the next tick.",
	}), "timeline_live_pending_bytes")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timeline_render_duration_seconds",
		Help:    "Time spent producing a rendering, labeled by mode.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"mode"}), "timeline_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Lines:          lines,
		Samples:        samples,
		Ticks:          ticks,
		Rescales:       rescales,
		PendingBytes:   pending,
		RenderDuration: durations,
	}, nil
}

// ObserveTick records the outcome of one poll tick.
func (c *Collector) ObserveTick(result aggregator.TickResult, pending int) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.Lines.WithLabelValues("accepted").Add(float64(result.Accepted))
	c.Lines.WithLabelValues("dropped").Add(float64(result.Dropped))
	for resource, n := range result.Received {
		c.Samples.WithLabelValues(resource).Add(float64(n))
	}
	if result.XChanged {
		c.Rescales.WithLabelValues("x").Inc()
	}
	if n := len(result.YChanged); n > 0 {
		c.Rescales.WithLabelValues("y").Add(float64(n))
	}
	c.PendingBytes.Set(float64(pending))
}

// ObserveRender records how long a rendering took.
func (c *Collector) ObserveRender(mode string, d time.Duration) {
	if c == nil {
		return
	}
	c.RenderDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for node_exporter's textfile collector. The file is replaced
// atomically.
func (c *Collector) WriteTextfile(path string) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
