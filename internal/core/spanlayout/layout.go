// Package spanlayout stacks overlapping spans into lanes.
//
// Lanes are assigned in a single greedy pass over spans ordered by start
// time: a span takes the lowest lane not held by a span that is still
// active at its start. This is first-fit interval colouring; it is not
// reconciled against an optimal colouring of the whole set.
package spanlayout

import (
	"sort"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// LaneHeight is the vertical distance between adjacent lanes.
const LaneHeight = 1.0

type activeSpan struct {
	end  time.Time
	lane int
}

// Engine places spans one at a time. Spans must be offered in
// non-decreasing start order.
type Engine struct {
	active []activeSpan
	lanes  int
}

// NewEngine returns an engine with no active spans.
func NewEngine() *Engine {
	return &Engine{}
}

// Place assigns span the lowest free lane.
func (e *Engine) Place(span model.Span) model.SpanBar {
	// Spans ending at or before this start no longer hold their lane.
	kept := e.active[:0]
	for _, a := range e.active {
		if a.end.After(span.Start) {
			kept = append(kept, a)
		}
	}
	e.active = kept

	lane := e.firstFreeLane()
	e.active = append(e.active, activeSpan{end: span.End, lane: lane})
	if lane+1 > e.lanes {
		e.lanes = lane + 1
	}

	return model.SpanBar{
		Span:   span,
		Lane:   lane,
		Offset: Offset(lane),
	}
}

func (e *Engine) firstFreeLane() int {
	occupied := make([]bool, len(e.active)+1)
	for _, a := range e.active {
		if a.lane < len(occupied) {
			occupied[a.lane] = true
		}
	}
	for lane, taken := range occupied {
		if !taken {
			return lane
		}
	}
	return len(occupied)
}

// Lanes returns how many lanes have been used so far.
func (e *Engine) Lanes() int {
	return e.lanes
}

// Offset converts a lane to its vertical position. Lanes stack downward
// from the baseline, lane 0 sitting just below it.
func Offset(lane int) float64 {
	return -LaneHeight * float64(lane+1)
}

// SortByStart orders spans by start time, keeping input order for equal
// starts.
func SortByStart(spans []model.Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start.Before(spans[j].Start)
	})
}

// Assign sorts a copy of spans by start and lays every span out.
func Assign(spans []model.Span) []model.SpanBar {
	ordered := make([]model.Span, len(spans))
	copy(ordered, spans)
	SortByStart(ordered)

	engine := NewEngine()
	bars := make([]model.SpanBar, 0, len(ordered))
	for _, s := range ordered {
		bars = append(bars, engine.Place(s))
	}
	return bars
}

// MaxConcurrent returns the largest number of spans active at one instant.
// Touching endpoints do not count as concurrent.
func MaxConcurrent(spans []model.Span) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, 2*len(spans))
	for _, s := range spans {
		edges = append(edges, edge{at: s.Start, delta: 1}, edge{at: s.End, delta: -1})
	}
	// Ends sort before starts at the same instant.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	current, peak := 0, 0
	for _, e := range edges {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}
