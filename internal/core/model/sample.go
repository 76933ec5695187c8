package model

import (
	"sort"
	"strings"
	"time"
)

// Sample is one raw observation of a resource.
type Sample struct {
	Time  time.Time
	Value string
}

// Cell is one table entry. Valid is false where no sample was recorded.
type Cell struct {
	Value string
	Valid bool
}

// missingMarkers are cell texts that stand for "no sample", as written by
// pandas and spreadsheet exports.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissingValue reports whether raw marks an absent sample.
func IsMissingValue(raw string) bool {
	_, ok := missingMarkers[strings.TrimSpace(raw)]
	return ok
}

// Recorded reports whether the cell holds a sample.
func (c Cell) Recorded() bool {
	return c.Valid && !IsMissingValue(c.Value)
}

// Table is a time-indexed frame with one column per resource. Every column
// has exactly len(Index) cells.
type Table struct {
	Index   []time.Time
	columns map[string][]Cell
}

// NewTable creates an empty table over index.
func NewTable(index []time.Time) *Table {
	return &Table{
		Index:   index,
		columns: make(map[string][]Cell),
	}
}

// SetColumn stores cells under name. Cells are padded or truncated to the
// index length.
func (t *Table) SetColumn(name string, cells []Cell) {
	col := make([]Cell, len(t.Index))
	copy(col, cells)
	t.columns[name] = col
}

// Column returns the cells for name.
func (t *Table) Column(name string) ([]Cell, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// HasColumn reports whether the table holds name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Columns returns column names sorted alphabetically.
func (t *Table) Columns() []string {
	names := make([]string, 0, len(t.columns))
	for name := range t.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Samples returns the recorded (non-empty) cells of name in index order.
func (t *Table) Samples(name string) []Sample {
	col, ok := t.columns[name]
	if !ok {
		return nil
	}
	samples := make([]Sample, 0, len(col))
	for i, c := range col {
		if c.Recorded() {
			samples = append(samples, Sample{Time: t.Index[i], Value: c.Value})
		}
	}
	return samples
}

// Bounds returns the first and last index times.
func (t *Table) Bounds() (start, end time.Time, ok bool) {
	if len(t.Index) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.Index[0], t.Index[len(t.Index)-1], true
}

// Point is one vertex of a renderable line.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// StepPoint is one vertex of a step function; the value holds on
// [Time, next.Time).
type StepPoint[V any] struct {
	Time  time.Time
	Value V
}

// PolySegment is the linear segment b + m*(t-Start).Seconds() on [Start, End].
type PolySegment struct {
	Start        time.Time
	End          time.Time
	Coefficients []float64
}

// Span is a closed interval reported by a span resource.
type Span struct {
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether s and o share any instant. Touching endpoints do
// not overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// SpanBar is a span placed in a lane.
type SpanBar struct {
	Span
	Lane   int     `json:"lane"`
	Offset float64 `json:"offset"`
}

// Tick maps a state index to its label on an enum axis.
type Tick struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Rendered is the drawable result for one resource.
type Rendered struct {
	Resource string    `json:"resource"`
	Kind     string    `json:"kind"`
	Missing  bool      `json:"missing,omitempty"`
	Step     bool      `json:"step,omitempty"`
	Points   []Point   `json:"points,omitempty"`
	Ticks    []Tick    `json:"ticks,omitempty"`
	Spans    []SpanBar `json:"spans,omitempty"`
}

// Rendering is the drawable result of a whole view.
type Rendering struct {
	WindowStart time.Time  `json:"windowStart"`
	WindowEnd   time.Time  `json:"windowEnd"`
	Resources   []Rendered `json:"resources"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// Report is one decoded line of the live stream.
type Report struct {
	Channel string
	Time    time.Time
	Data    float64
}
