// Package interpret turns one resource's column of a time-indexed table into
// drawable output, according to the resource's kind.
package interpret

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/core/timeline"
)

// interpreter visits the kind of a single resource and fills out.
type interpreter struct {
	name  string
	table *model.Table
	cells []model.Cell
	out   model.Rendered
}

// Interpret renders the column of table named by view. A resource with no
// column yields an empty result flagged Missing; that case is not an error.
func Interpret(view model.ResourceView, table *model.Table) (model.Rendered, error) {
	if view.Kind == nil {
		return model.Rendered{}, fmt.Errorf("%w: resource '%s' has no kind", model.ErrUnknownKind, view.Name)
	}

	rendered := model.Rendered{Resource: view.Name, Kind: view.Kind.Name()}
	if table == nil {
		rendered.Missing = true
		return rendered, nil
	}
	cells, ok := table.Column(view.Name)
	if !ok {
		rendered.Missing = true
		return rendered, nil
	}

	in := &interpreter{
		name:  view.Name,
		table: table,
		cells: cells,
		out:   rendered,
	}
	if err := view.Kind.Accept(in); err != nil {
		return model.Rendered{}, fmt.Errorf("resource '%s': %w", view.Name, err)
	}
	return in.out, nil
}

// filled forward-fills the column and returns the recorded instants, skipping
// those before the first sample.
func (in *interpreter) filled() ([]time.Time, []string) {
	cells := timeline.ForwardFill(in.cells)
	times := make([]time.Time, 0, len(cells))
	values := make([]string, 0, len(cells))
	for i, c := range cells {
		if !c.Valid {
			continue
		}
		times = append(times, in.table.Index[i])
		values = append(values, c.Value)
	}
	return times, values
}

func parseNumber(raw string, at time.Time) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value '%s' at %s", raw, at.Format(time.RFC3339Nano))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value '%s' at %s", raw, at.Format(time.RFC3339Nano))
	}
	return v, nil
}

func parseNumbers(times []time.Time, values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, raw := range values {
		v, err := parseNumber(raw, times[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func stepPoints[V any](steps []model.StepPoint[V], value func(V) float64) []model.Point {
	points := make([]model.Point, len(steps))
	for i, s := range steps {
		points[i] = model.Point{Time: s.Time, Value: value(s.Value)}
	}
	return points
}
