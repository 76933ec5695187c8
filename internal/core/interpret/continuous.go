package interpret

import "github.com/penwyp/go-timeline-view/internal/core/model"

// VisitContinuous passes the forward-filled series through as a line.
func (in *interpreter) VisitContinuous(model.Continuous) error {
	times, raw := in.filled()
	values, err := parseNumbers(times, raw)
	if err != nil {
		return err
	}

	in.out.Points = make([]model.Point, len(values))
	for i, v := range values {
		in.out.Points[i] = model.Point{Time: times[i], Value: v}
	}
	return nil
}
