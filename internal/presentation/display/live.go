// Package display prints the live status of a stream to a terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-timeline-view/internal/data/aggregator"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// LiveDisplay redraws a per-resource status table after ticks that changed
// an axis.
type LiveDisplay struct {
	out     io.Writer
	width   int
	redraw  bool
	started time.Time
}

// DisplayConfig controls the live display.
type DisplayConfig struct {
	// Width limits line length in cells.
	Width int
	// Redraw clears the screen before each update; set it for terminals.
	Redraw bool
}

// NewLiveDisplay creates a display writing to out.
func NewLiveDisplay(out io.Writer, config DisplayConfig) *LiveDisplay {
	width := config.Width
	if width <= 0 {
		width = util.DefaultTerminalWidth
	}
	return &LiveDisplay{
		out:     out,
		width:   width,
		redraw:  config.Redraw,
		started: time.Now(),
	}
}

// Update satisfies live.Display.
func (d *LiveDisplay) Update(agg *aggregator.Aggregator, result aggregator.TickResult) error {
	_, err := io.WriteString(d.out, d.Render(agg, result))
	return err
}

// Render builds the status screen.
func (d *LiveDisplay) Render(agg *aggregator.Aggregator, result aggregator.TickResult) string {
	var b strings.Builder
	if d.redraw {
		b.WriteString(util.ClearScreen + util.MoveCursorHome)
	}

	accepted, dropped := agg.Totals()
	x := agg.XLimits()
	header := fmt.Sprintf("%sLive%s  up %s  lines %s ok / %s dropped",
		util.ColorBold, util.ColorReset,
		util.FormatDuration(time.Since(d.started)),
		util.FormatNumber(accepted), util.FormatNumber(dropped))
	b.WriteString(header + "\n")
	if x.IsSet() {
		b.WriteString(fmt.Sprintf("Time axis: %s → %s\n",
			util.FormatDisplayTime(secondsToTime(x.Min)),
			util.FormatDisplayTime(secondsToTime(x.Max))))
	}

	rescaled := make(map[string]bool, len(result.YChanged))
	for _, name := range result.YChanged {
		rescaled[name] = true
	}

	nameWidth := len("Resource")
	for _, name := range agg.Resources() {
		if w := util.GetDisplayWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	if limit := d.width / 3; nameWidth > limit {
		nameWidth = limit
	}

	b.WriteString(d.line(fmt.Sprintf("%s  %8s  %12s  %25s",
		util.PadString("Resource", nameWidth, true), "Samples", "Latest", "Y range")))
	for _, name := range agg.Resources() {
		rd, _ := agg.Resource(name)
		latest := "-"
		if _, v, ok := rd.Latest(); ok {
			latest = util.FormatValue(v)
		}
		yRange := "-"
		if rd.Limits.IsSet() {
			yRange = fmt.Sprintf("[%s, %s]", util.FormatValue(rd.Limits.Min), util.FormatValue(rd.Limits.Max))
		}

		row := fmt.Sprintf("%s  %8s  %12s  %25s",
			util.PadString(util.TruncateString(name, nameWidth), nameWidth, true),
			util.FormatNumber(len(rd.Xs)), latest, yRange)
		if rescaled[name] {
			row = util.ColorYellow + d.clip(row) + util.ColorReset + "\n"
			b.WriteString(row)
			continue
		}
		b.WriteString(d.line(row))
	}
	return b.String()
}

func (d *LiveDisplay) clip(s string) string {
	return util.TruncateString(s, d.width)
}

func (d *LiveDisplay) line(s string) string {
	return d.clip(s) + "\n"
}

func secondsToTime(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second))).UTC()
}
