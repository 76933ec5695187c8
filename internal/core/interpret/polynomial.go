package interpret

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// VisitPolynomial renders each linear segment by its two endpoints.
func (in *interpreter) VisitPolynomial(model.Polynomial) error {
	segments, err := in.segments()
	if err != nil {
		return err
	}

	in.out.Points = make([]model.Point, 0, 2*len(segments))
	for _, seg := range segments {
		b, m := seg.Coefficients[0], 0.0
		if len(seg.Coefficients) > 1 {
			m = seg.Coefficients[1]
		}
		in.out.Points = append(in.out.Points,
			model.Point{Time: seg.Start, Value: b},
			model.Point{Time: seg.End, Value: b + m*seg.End.Sub(seg.Start).Seconds()},
		)
	}
	return nil
}

// segments decodes every recorded coefficient list. A segment lasts until the
// next sample; the last one lasts until the end of the index.
func (in *interpreter) segments() ([]model.PolySegment, error) {
	samples := in.table.Samples(in.name)
	if len(samples) == 0 {
		return nil, nil
	}
	_, last, _ := in.table.Bounds()

	segments := make([]model.PolySegment, 0, len(samples))
	for i, s := range samples {
		coefficients, err := decodeCoefficients(s.Value, s.Time)
		if err != nil {
			return nil, err
		}

		end := last
		if i+1 < len(samples) {
			end = samples[i+1].Time
		}
		segments = append(segments, model.PolySegment{
			Start:        s.Time,
			End:          end,
			Coefficients: coefficients,
		})
	}
	return segments, nil
}

func decodeCoefficients(raw string, at time.Time) ([]float64, error) {
	var coefficients []float64
	if err := sonic.UnmarshalString(raw, &coefficients); err != nil {
		return nil, fmt.Errorf("%w at %s: %v", model.ErrInvalidCoefficients, at.Format(time.RFC3339Nano), err)
	}
	switch {
	case len(coefficients) == 0:
		return nil, fmt.Errorf("%w at %s: empty list", model.ErrInvalidCoefficients, at.Format(time.RFC3339Nano))
	case len(coefficients) > 2:
		return nil, fmt.Errorf("%w: polynomial of degree %d at %s",
			model.ErrNotImplemented, len(coefficients)-1, at.Format(time.RFC3339Nano))
	}
	return coefficients, nil
}
