// Package formatter writes renderings as a table, JSON or CSV.
package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// Output format names.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Formatter writes a rendering to w.
type Formatter interface {
	Format(w io.Writer, rendering *model.Rendering) error
}

// New returns the formatter for kind.
func New(kind string) (Formatter, error) {
	switch kind {
	case FormatTable, "":
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s': must be table, json or csv", kind)
	}
}

// tickLabel returns the enum label for value, or "".
func tickLabel(ticks []model.Tick, value float64) string {
	for _, t := range ticks {
		if float64(t.Value) == value {
			return t.Label
		}
	}
	return ""
}
