package timeline

import (
	"sort"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// ForwardFill carries each recorded cell forward over the unset cells after
// it. Missing markers such as NaN count as unset. Cells before the first
// recorded value stay unset.
func ForwardFill(cells []model.Cell) []model.Cell {
	filled := make([]model.Cell, len(cells))
	var last model.Cell
	for i, c := range cells {
		if c.Recorded() {
			last = c
		}
		filled[i] = last
	}
	return filled
}

// BuildSteps turns a forward-filled series into vertices that draw as a step
// plot when joined by straight lines. For every change at times[i] a point
// carrying the previous value is placed at times[i], ordered before the
// point carrying the new value.
func BuildSteps[V comparable](times []time.Time, values []V) []model.StepPoint[V] {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	if n == 0 {
		return nil
	}

	points := make([]model.StepPoint[V], 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 && values[i] != values[i-1] {
			points = append(points, model.StepPoint[V]{Time: times[i], Value: values[i-1]})
		}
		points = append(points, model.StepPoint[V]{Time: times[i], Value: values[i]})
	}

	// Input may repeat timestamps; the stable sort keeps each held point ahead
	// of the value recorded at the same instant.
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Time.Before(points[b].Time)
	})
	return points
}

// ValueAt returns the value of the last point at or before t.
func ValueAt[V any](points []model.StepPoint[V], t time.Time) (V, bool) {
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].Time.After(t)
	})
	if idx == 0 {
		var zero V
		return zero, false
	}
	return points[idx-1].Value, true
}
