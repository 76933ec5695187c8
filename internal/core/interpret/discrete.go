package interpret

import (
	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/core/timeline"
)

// VisitDiscrete renders numeric values that hold until the next change.
func (in *interpreter) VisitDiscrete(model.Discrete) error {
	times, raw := in.filled()
	values, err := parseNumbers(times, raw)
	if err != nil {
		return err
	}

	steps := timeline.BuildSteps(times, values)
	in.out.Step = true
	in.out.Points = stepPoints(steps, func(v float64) float64 { return v })
	return nil
}
