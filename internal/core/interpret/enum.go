package interpret

import (
	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/core/timeline"
)

// VisitEnum renders labelled states as a step function over state indices.
// Ticks carry the labels so an axis can show them instead of the numbers.
func (in *interpreter) VisitEnum(k model.Enum) error {
	times, labels := in.filled()
	steps := timeline.BuildSteps(times, labels)

	observed := make([]string, 0, len(steps))
	for _, s := range steps {
		observed = append(observed, s.Value)
	}
	states := timeline.NewStateTable(k.Values, observed)

	in.out.Step = true
	in.out.Ticks = states.Ticks()
	in.out.Points = stepPoints(steps, func(label string) float64 {
		i, _ := states.Index(label)
		return float64(i)
	})
	return nil
}
