package aggregator

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-timeline-view/internal/testing/fixtures"
	"github.com/penwyp/go-timeline-view/internal/util"
)

func line(channel string, sec int, data float64) string {
	ts := time.Date(2020, 1, 1, 0, 0, sec, 0, time.UTC).Format("2006-01-02T15:04:05Z")
	return fmt.Sprintf(`{"channel":%q,"time":%q,"data":%v}`+"\n", channel, ts, data)
}

func TestTickAccumulatesInOrder(t *testing.T) {
	agg := New([]string{"x", "y"}, DefaultOptions())

	result := agg.Tick([]byte(line("x", 0, 1) + line("y", 1, 5) + line("x", 2, 3)))

	assert.Equal(t, 3, result.Accepted)
	assert.Equal(t, 0, result.Dropped)
	assert.Equal(t, map[string]int{"x": 2, "y": 1}, result.Received)

	x, ok := agg.Resource("x")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, x.Ys)
	ts, v, ok := x.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, ts.Second())
	assert.Equal(t, 3.0, v)
}

func TestTickKeepsPartialLine(t *testing.T) {
	agg := New([]string{"x"}, DefaultOptions())
	full := line("x", 0, 7)
	cut := len(full) / 2

	result := agg.Tick([]byte(full[:cut]))
	assert.Equal(t, 0, result.Accepted)
	assert.Equal(t, cut, agg.Pending())
	assert.False(t, result.Changed())

	result = agg.Tick(nil)
	assert.Equal(t, 0, result.Accepted)

	result = agg.Tick([]byte(full[cut:]))
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 0, agg.Pending())

	x, _ := agg.Resource("x")
	assert.Equal(t, []float64{7}, x.Ys)
}

func TestFinishDiscardsFragment(t *testing.T) {
	agg := New([]string{"x"}, DefaultOptions())
	agg.Tick([]byte(line("x", 0, 1) + strings.TrimSuffix(line("x", 1, 2), "\n")))

	assert.Greater(t, agg.Finish(), 0)
	assert.Equal(t, 0, agg.Pending())

	x, _ := agg.Resource("x")
	assert.Equal(t, []float64{1}, x.Ys)
}

func TestTickDropsNonNumericData(t *testing.T) {
	agg := New([]string{"x"}, DefaultOptions())
	agg.Tick([]byte(line("x", 0, 1) + line("x", 1, 2)))

	result := agg.Tick([]byte(`{"channel":"x","time":"2020-01-01T00:00:00Z","data":"nan"}` + "\n"))

	assert.Equal(t, 0, result.Accepted)
	assert.Equal(t, 1, result.Dropped)
	x, _ := agg.Resource("x")
	assert.Equal(t, []float64{1, 2}, x.Ys)
	assert.Len(t, x.Xs, 2)
}

func TestTickDropsNoise(t *testing.T) {
	agg := New([]string{"x"}, DefaultOptions())

	result := agg.Tick([]byte("garbage\n" +
		line("z", 0, 1) +
		`{"channel":"x","time":"yesterday","data":1}` + "\n" +
		`{"channel":"x","data":1}` + "\n" +
		"\n" +
		line("x", 3, 4)))

	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 4, result.Dropped)
	accepted, dropped := agg.Totals()
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 4, dropped)
}

func TestTickLimits(t *testing.T) {
	agg := New([]string{"x", "y"}, DefaultOptions())

	result := agg.Tick([]byte(line("x", 0, 0) + line("x", 10, 10)))
	assert.True(t, result.XChanged)
	assert.Equal(t, []string{"x"}, result.YChanged)

	yl, _ := agg.YLimits("x")
	assert.Equal(t, 0.0, yl.Min)
	assert.Equal(t, 10.0, yl.Max)
	_, ok := agg.YLimits("y")
	assert.True(t, ok)

	// Inside both ranges: nothing to rescale.
	result = agg.Tick([]byte(line("x", 5, 5)))
	assert.False(t, result.Changed())

	// New maximum only.
	result = agg.Tick([]byte(line("x", 10, 20)))
	assert.False(t, result.XChanged)
	assert.Equal(t, []string{"x"}, result.YChanged)
	yl, _ = agg.YLimits("x")
	assert.Equal(t, 0.0, yl.Min)
	assert.InDelta(t, 22.0, yl.Max, 1e-9)

	// Later time grows the time axis forward with padding, never backward.
	xl := agg.XLimits()
	start := xl.Min
	result = agg.Tick([]byte(line("y", 20, 1)))
	assert.True(t, result.XChanged)
	assert.Equal(t, []string{"y"}, result.YChanged)
	xl = agg.XLimits()
	assert.Equal(t, start, xl.Min)
	assert.InDelta(t, start+20+0.1*20, xl.Max, 1e-6)
}

func TestRendering(t *testing.T) {
	agg := New([]string{"x", "y", "x"}, DefaultOptions())
	agg.Tick([]byte(line("x", 4, 2) + line("x", 1, 1)))

	assert.Equal(t, []string{"x", "y"}, agg.Resources())

	rendering := agg.Rendering()
	require.Len(t, rendering.Resources, 2)
	x := rendering.Resources[0]
	assert.Equal(t, "continuous", x.Kind)
	require.Len(t, x.Points, 2)
	assert.Equal(t, 1.0, x.Points[0].Value)
	assert.True(t, rendering.Resources[1].Missing)
	assert.Equal(t, 1, rendering.WindowStart.Second())
	assert.Equal(t, 4, rendering.WindowEnd.Second())
}

func TestTickChunkBoundariesDoNotMatter(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	stream, err := fixtures.Stream(fixtures.RampReports(start, time.Second, 40, "x", "y"))
	require.NoError(t, err)

	whole := New([]string{"x", "y"}, DefaultOptions())
	whole.Tick(stream)

	chunked := New([]string{"x", "y"}, DefaultOptions())
	for off := 0; off < len(stream); off += 17 {
		end := off + 17
		if end > len(stream) {
			end = len(stream)
		}
		chunked.Tick(stream[off:end])
	}

	for _, name := range []string{"x", "y"} {
		a, ok := whole.Resource(name)
		require.True(t, ok)
		b, ok := chunked.Resource(name)
		require.True(t, ok)
		assert.Len(t, b.Ys, 40)
		assert.Equal(t, a.Ys, b.Ys)
		assert.Equal(t, a.Xs, b.Xs)
	}
	assert.Equal(t, 0, chunked.Pending())

	accepted, dropped := chunked.Totals()
	assert.Equal(t, 80, accepted)
	assert.Equal(t, 0, dropped)
}

func TestTickLogsDroppedLinesWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := util.NewLogger(util.LoggerConfig{Level: "debug", Console: &buf})
	require.NoError(t, err)
	util.SetLogger(logger)
	defer util.SetLogger(nil)

	agg := New([]string{"x"}, DefaultOptions())
	agg.Tick([]byte(line("other", 0, 1) + "not json\n" + line("x", 1, 2)))

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] Dropped live line for unknown channel channel=other")
	assert.Contains(t, out, "[DEBUG] Dropped live line error=")
	assert.Contains(t, out, "[DEBUG] Time axis rescaled max=")
}
