package observability

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
)

func TestObserveTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveTick(aggregator.TickResult{
		Accepted: 3,
		Dropped:  1,
		XChanged: true,
		YChanged: []string{"a", "b"},
		Received: map[string]int{"a": 2, "b": 1},
	}, 17)
	collector.ObserveTick(aggregator.TickResult{}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.Lines.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Lines.WithLabelValues("dropped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Samples.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Rescales.WithLabelValues("x")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Rescales.WithLabelValues("y")))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.PendingBytes))
}

func TestNewCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	first.Ticks.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Ticks))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveTick(aggregator.TickResult{Accepted: 1}, 0)
		c.ObserveRender("batch", time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)
	collector.ObserveRender("batch", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `timeline_render_duration_seconds_count{mode="batch"} 1`))
}

func TestWriteTextfile(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	collector.ObserveRender("batch", 20*time.Millisecond)

	path := filepath.Join(t.TempDir(), "render.prom")
	require.NoError(t, collector.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `timeline_render_duration_seconds_count{mode="batch"} 1`)
}

func TestWriteTextfileMissingDirectory(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	err = collector.WriteTextfile(filepath.Join(t.TempDir(), "absent", "render.prom"))
	assert.Error(t, err)
}
