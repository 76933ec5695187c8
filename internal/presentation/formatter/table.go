package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// TableFormatter prints one summary row per resource in a box-drawn table.
type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Resource", "Kind", "Points", "First", "Last", "Min", "Max", "Latest"},
	}
}

func (f *TableFormatter) Format(w io.Writer, rendering *model.Rendering) error {
	rows := make([][]string, 0, len(rendering.Resources))
	for _, r := range rendering.Resources {
		rows = append(rows, summarize(r))
	}
	widths := f.calculateColumnWidths(rows)

	fmt.Fprintf(w, "Window: %s → %s\n",
		util.FormatDisplayTime(rendering.WindowStart), util.FormatDisplayTime(rendering.WindowEnd))

	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")
	for _, row := range rows {
		f.printRow(w, row, widths)
	}
	f.printBorder(w, widths, "bottom")

	for _, warning := range rendering.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

// summarize reduces a rendered resource to one table row.
func summarize(r model.Rendered) []string {
	row := []string{r.Resource, r.Kind, "", "-", "-", "-", "-", "-"}

	switch {
	case r.Missing:
		row[2] = "missing"
	case len(r.Spans) > 0:
		lanes := 0
		first, last := r.Spans[0].Start, r.Spans[0].End
		for _, s := range r.Spans {
			if s.Lane+1 > lanes {
				lanes = s.Lane + 1
			}
			if s.End.After(last) {
				last = s.End
			}
		}
		row[2] = fmt.Sprintf("%s spans / %d lanes", util.FormatNumber(len(r.Spans)), lanes)
		row[3] = util.FormatDisplayTime(first)
		row[4] = util.FormatDisplayTime(last)
		row[7] = r.Spans[len(r.Spans)-1].Name
	case len(r.Points) > 0:
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range r.Points {
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
		latest := r.Points[len(r.Points)-1].Value
		row[2] = util.FormatNumber(len(r.Points))
		row[3] = util.FormatDisplayTime(r.Points[0].Time)
		row[4] = util.FormatDisplayTime(r.Points[len(r.Points)-1].Time)
		row[5] = valueText(r, lo)
		row[6] = valueText(r, hi)
		row[7] = valueText(r, latest)
	default:
		row[2] = "0"
	}
	return row
}

// valueText shows enum values by label.
func valueText(r model.Rendered, v float64) string {
	if label := tickLabel(r.Ticks, v); label != "" {
		return label
	}
	return util.FormatValue(v)
}

func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(w, b.String())
}

// printRow left-aligns text columns and right-aligns numeric ones.
func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		leftAlign := i < 2 || i == 3 || i == 4
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	fmt.Fprintln(w, b.String())
}
