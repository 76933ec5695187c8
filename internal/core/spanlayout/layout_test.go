package spanlayout

import (
	"math/rand"
	"testing"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func span(name string, start, end int) model.Span {
	return model.Span{
		Name:  name,
		Type:  "activity",
		Start: t0.Add(time.Duration(start) * time.Second),
		End:   t0.Add(time.Duration(end) * time.Second),
	}
}

func lanesByName(bars []model.SpanBar) map[string]int {
	lanes := make(map[string]int, len(bars))
	for _, b := range bars {
		lanes[b.Name] = b.Lane
	}
	return lanes
}

func TestAssignReusesFreedLane(t *testing.T) {
	bars := Assign([]model.Span{
		span("A", 0, 10),
		span("B", 5, 15),
		span("C", 12, 20),
	})

	require.Len(t, bars, 3)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 0}, lanesByName(bars))
	assert.Equal(t, -1.0, bars[0].Offset)
	assert.Equal(t, -2.0, bars[1].Offset)
}

func TestAssignSortsByStart(t *testing.T) {
	bars := Assign([]model.Span{
		span("C", 12, 20),
		span("A", 0, 10),
		span("B", 5, 15),
	})

	assert.Equal(t, []string{"A", "B", "C"}, []string{bars[0].Name, bars[1].Name, bars[2].Name})
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 0}, lanesByName(bars))
}

func TestAssignTouchingSpansShareLane(t *testing.T) {
	bars := Assign([]model.Span{
		span("A", 0, 10),
		span("B", 10, 20),
	})

	assert.Equal(t, map[string]int{"A": 0, "B": 0}, lanesByName(bars))
}

func TestAssignSimultaneousStartsKeepInputOrder(t *testing.T) {
	bars := Assign([]model.Span{
		span("first", 0, 10),
		span("second", 0, 5),
		span("third", 0, 20),
	})

	assert.Equal(t, "first", bars[0].Name)
	assert.Equal(t, map[string]int{"first": 0, "second": 1, "third": 2}, lanesByName(bars))
}

func TestAssignFillsLowestGap(t *testing.T) {
	bars := Assign([]model.Span{
		span("A", 0, 100),
		span("B", 1, 5),
		span("C", 2, 100),
		span("D", 6, 50), // B has ended, lane 1 is free again
	})

	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2, "D": 1}, lanesByName(bars))
}

func TestAssignEmpty(t *testing.T) {
	assert.Empty(t, Assign(nil))
	assert.Equal(t, 0, MaxConcurrent(nil))
}

func TestAssignNoSharedLaneOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(30)
		spans := make([]model.Span, n)
		for i := range spans {
			start := rng.Intn(100)
			spans[i] = span("s", start, start+1+rng.Intn(30))
		}

		bars := Assign(spans)
		require.Len(t, bars, n)

		maxLane := -1
		for i := range bars {
			if bars[i].Lane > maxLane {
				maxLane = bars[i].Lane
			}
			for j := i + 1; j < len(bars); j++ {
				if bars[i].Lane == bars[j].Lane {
					assert.False(t, bars[i].Overlaps(bars[j].Span),
						"trial %d: spans %d and %d share lane %d", trial, i, j, bars[i].Lane)
				}
			}
		}

		// Sorted by start, first-fit uses exactly as many lanes as the peak
		// number of simultaneously active spans.
		assert.Equal(t, MaxConcurrent(spans), maxLane+1, "trial %d", trial)
	}
}

func TestEngineCountsLanes(t *testing.T) {
	e := NewEngine()
	e.Place(span("A", 0, 10))
	e.Place(span("B", 1, 10))
	e.Place(span("C", 20, 30))

	assert.Equal(t, 2, e.Lanes())
}

func TestMaxConcurrent(t *testing.T) {
	assert.Equal(t, 2, MaxConcurrent([]model.Span{
		span("A", 0, 10),
		span("B", 5, 15),
		span("C", 12, 20),
	}))
	assert.Equal(t, 1, MaxConcurrent([]model.Span{
		span("A", 0, 10),
		span("B", 10, 20),
	}))
}
