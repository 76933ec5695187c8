package interpret

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/core/spanlayout"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// spanRecord is the JSON payload of one span sample.
type spanRecord struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// VisitSpan lays out every closed span recorded for the resource.
func (in *interpreter) VisitSpan(model.SpanKind) error {
	spans, err := in.spans()
	if err != nil {
		return err
	}
	in.out.Spans = spanlayout.Assign(spans)
	return nil
}

// spans decodes the closed spans. Records with no end are still open and are
// skipped.
func (in *interpreter) spans() ([]model.Span, error) {
	samples := in.table.Samples(in.name)
	spans := make([]model.Span, 0, len(samples))
	open := 0

	for _, s := range samples {
		var rec spanRecord
		if err := sonic.UnmarshalString(s.Value, &rec); err != nil {
			return nil, fmt.Errorf("invalid span at %s: %w", s.Time.Format(time.RFC3339Nano), err)
		}
		if rec.End == nil {
			open++
			continue
		}

		end, err := parseSpanTime(*rec.End)
		if err != nil {
			return nil, err
		}
		start := s.Time
		if rec.Start != nil {
			if start, err = parseSpanTime(*rec.Start); err != nil {
				return nil, err
			}
		}
		spans = append(spans, model.Span{Name: rec.Name, Type: rec.Type, Start: start, End: end})
	}

	if open > 0 {
		util.LogDebug("Skipped open spans", util.String("resource", in.name), util.Int("open", open))
	}
	return spans, nil
}

// parseSpanTime accepts the strict telemetry timestamps plus RFC 3339, which
// schedule generators commonly emit.
func parseSpanTime(raw string) (time.Time, error) {
	t, err := parser.ParseTimestamp(raw)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339Nano, raw); rfcErr == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
