package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
	"github.com/penwyp/go-timeline-view/internal/util"
)

func TestLiveDisplayRender(t *testing.T) {
	agg := aggregator.New([]string{"battery", "heater"}, aggregator.DefaultOptions())
	result := agg.Tick([]byte(`{"channel":"battery","time":"2020-01-01T00:00:00Z","data":10}` + "\n" +
		`{"channel":"battery","time":"2020-01-01T00:00:10Z","data":12.5}` + "\n"))

	var buf bytes.Buffer
	d := NewLiveDisplay(&buf, DisplayConfig{Width: 100})
	require.NoError(t, d.Update(agg, result))

	out := buf.String()
	assert.NotContains(t, out, util.ClearScreen)
	assert.Contains(t, out, "lines 2 ok / 0 dropped")
	assert.Contains(t, out, "Time axis: 2020-01-01 00:00:00")
	assert.Contains(t, out, "[10, 12.5]")
	assert.Contains(t, out, util.ColorYellow)

	var heater string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "heater") {
			heater = line
		}
	}
	require.NotEmpty(t, heater)
	assert.Contains(t, heater, " 0 ")
	assert.NotContains(t, heater, util.ColorYellow)
}

func TestLiveDisplayRedrawClearsScreen(t *testing.T) {
	agg := aggregator.New([]string{"x"}, aggregator.DefaultOptions())
	d := NewLiveDisplay(&bytes.Buffer{}, DisplayConfig{Redraw: true})

	out := d.Render(agg, aggregator.TickResult{})
	assert.True(t, strings.HasPrefix(out, util.ClearScreen+util.MoveCursorHome))
	assert.NotContains(t, out, "Time axis")
}
