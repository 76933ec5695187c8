package aggregator

import (
	"bytes"
	"sort"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// Options sets the padding applied when axis limits grow.
type Options struct {
	XMinBuffer float64
	XMaxBuffer float64
	YBuffer    float64
}

// DefaultOptions pads the time axis only forward and value axes both ways.
func DefaultOptions() Options {
	return Options{
		XMinBuffer: 0,
		XMaxBuffer: model.DefaultLimitBuffer,
		YBuffer:    model.DefaultLimitBuffer,
	}
}

// ResourceData holds everything received for one resource. Xs and Ys only
// grow.
type ResourceData struct {
	Xs     []time.Time
	Ys     []float64
	Limits *model.Limits
}

// Latest returns the most recent sample.
func (rd *ResourceData) Latest() (time.Time, float64, bool) {
	if len(rd.Xs) == 0 {
		return time.Time{}, 0, false
	}
	return rd.Xs[len(rd.Xs)-1], rd.Ys[len(rd.Ys)-1], true
}

// TickResult describes what one tick changed.
type TickResult struct {
	Accepted int
	Dropped  int
	// XChanged is true when the shared time axis must be rescaled.
	XChanged bool
	// YChanged lists, in resource order, the value axes that must be rescaled.
	YChanged []string
	// Received counts accepted samples per resource.
	Received map[string]int
}

// Changed reports whether any axis needs rescaling.
func (r TickResult) Changed() bool {
	return r.XChanged || len(r.YChanged) > 0
}

// Aggregator is the state of a live stream: the unterminated tail of the
// input, the samples of every resource and the axis limits. It is not safe
// for concurrent use; ticks must be serialized by the caller.
type Aggregator struct {
	names   []string
	data    map[string]*ResourceData
	xLimits *model.Limits
	partial []byte

	accepted int
	dropped  int
}

// New creates an aggregator for the named resources. Lines for any other
// channel are dropped.
func New(resources []string, opts Options) *Aggregator {
	a := &Aggregator{
		data:    make(map[string]*ResourceData, len(resources)),
		xLimits: model.NewLimits(opts.XMinBuffer, opts.XMaxBuffer),
	}
	for _, name := range resources {
		if _, exists := a.data[name]; exists {
			continue
		}
		a.names = append(a.names, name)
		a.data[name] = &ResourceData{Limits: model.NewLimits(opts.YBuffer, opts.YBuffer)}
	}
	return a
}

// Tick consumes the text read since the previous tick. Complete lines are
// applied in input order; a trailing fragment is kept for the next tick.
// Malformed lines and unknown channels are dropped.
func (a *Aggregator) Tick(chunk []byte) TickResult {
	result := TickResult{Received: make(map[string]int)}

	a.partial = append(a.partial, chunk...)
	end := bytes.LastIndexByte(a.partial, '\n')
	if end < 0 {
		return result
	}
	complete := a.partial[:end]
	a.partial = append([]byte(nil), a.partial[end+1:]...)

	var newTimes []float64
	newValues := make(map[string][]float64)

	for _, line := range bytes.Split(complete, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		report, err := parser.ParseReport(line)
		if err != nil {
			util.LogDebug("Dropped live line", util.Err(err))
			result.Dropped++
			continue
		}
		rd, ok := a.data[report.Channel]
		if !ok {
			util.LogDebug("Dropped live line for unknown channel", util.String("channel", report.Channel))
			result.Dropped++
			continue
		}

		rd.Xs = append(rd.Xs, report.Time)
		rd.Ys = append(rd.Ys, report.Data)
		newTimes = append(newTimes, unixSeconds(report.Time))
		newValues[report.Channel] = append(newValues[report.Channel], report.Data)
		result.Received[report.Channel]++
		result.Accepted++
	}

	result.XChanged = a.xLimits.Merge(model.RangeOf(newTimes...))
	if result.XChanged {
		util.LogDebug("Time axis rescaled",
			util.Float("min", a.xLimits.Min), util.Float("max", a.xLimits.Max))
	}
	for _, name := range a.names {
		values, ok := newValues[name]
		if !ok {
			continue
		}
		if a.data[name].Limits.Merge(model.RangeOf(values...)) {
			result.YChanged = append(result.YChanged, name)
		}
	}

	a.accepted += result.Accepted
	a.dropped += result.Dropped
	return result
}

// Finish discards the unterminated fragment left at end of input and returns
// its length. The fragment is never parsed.
func (a *Aggregator) Finish() int {
	n := len(a.partial)
	if n > 0 {
		util.LogDebug("Discarded unterminated input", util.Int("bytes", n))
	}
	a.partial = nil
	return n
}

// Pending returns the length of the buffered fragment.
func (a *Aggregator) Pending() int {
	return len(a.partial)
}

// Resources returns the tracked resource names in order.
func (a *Aggregator) Resources() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Resource returns the data of name.
func (a *Aggregator) Resource(name string) (*ResourceData, bool) {
	rd, ok := a.data[name]
	return rd, ok
}

// XLimits returns the time axis range in Unix seconds.
func (a *Aggregator) XLimits() model.Limits {
	return *a.xLimits
}

// YLimits returns the value axis range of name.
func (a *Aggregator) YLimits(name string) (model.Limits, bool) {
	rd, ok := a.data[name]
	if !ok {
		return model.Limits{}, false
	}
	return *rd.Limits, true
}

// Totals returns the number of lines accepted and dropped so far.
func (a *Aggregator) Totals() (accepted, dropped int) {
	return a.accepted, a.dropped
}

// Rendering returns the accumulated series as continuous lines, points sorted
// by time.
func (a *Aggregator) Rendering() *model.Rendering {
	rendering := &model.Rendering{Resources: make([]model.Rendered, 0, len(a.names))}

	var first, last time.Time
	for _, name := range a.names {
		rd := a.data[name]
		rendered := model.Rendered{Resource: name, Kind: model.KindContinuous}
		if len(rd.Xs) == 0 {
			rendered.Missing = true
			rendering.Resources = append(rendering.Resources, rendered)
			continue
		}

		rendered.Points = make([]model.Point, len(rd.Xs))
		for i := range rd.Xs {
			rendered.Points[i] = model.Point{Time: rd.Xs[i], Value: rd.Ys[i]}
		}
		sort.SliceStable(rendered.Points, func(i, j int) bool {
			return rendered.Points[i].Time.Before(rendered.Points[j].Time)
		})

		if p := rendered.Points[0].Time; first.IsZero() || p.Before(first) {
			first = p
		}
		if p := rendered.Points[len(rendered.Points)-1].Time; p.After(last) {
			last = p
		}
		rendering.Resources = append(rendering.Resources, rendered)
	}

	rendering.WindowStart, rendering.WindowEnd = first, last
	return rendering
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
