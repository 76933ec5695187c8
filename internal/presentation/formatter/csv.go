package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// CSVFormatter writes one row per drawable vertex or span. Missing resources
// produce no rows.
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

var csvHeaders = []string{"resource", "kind", "time", "value", "label", "lane", "span_name", "span_type", "span_end"}

func (f *CSVFormatter) Format(w io.Writer, rendering *model.Rendering) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	for _, r := range rendering.Resources {
		for _, p := range r.Points {
			record := []string{
				r.Resource,
				r.Kind,
				parser.FormatTimestamp(p.Time),
				strconv.FormatFloat(p.Value, 'g', -1, 64),
				tickLabel(r.Ticks, p.Value),
				"", "", "", "",
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		for _, s := range r.Spans {
			record := []string{
				r.Resource,
				r.Kind,
				parser.FormatTimestamp(s.Start),
				util.FormatValue(s.Offset),
				"",
				strconv.Itoa(s.Lane),
				s.Name,
				s.Type,
				parser.FormatTimestamp(s.End),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
