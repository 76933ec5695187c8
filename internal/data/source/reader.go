package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/data/parser"
	"github.com/penwyp/go-timeline-view/internal/util"
)

// Format is the layout of a batch CSV file.
type Format int

const (
	// FormatAuto infers the layout from the file name.
	FormatAuto Format = iota
	// FormatEvents has one row per event: time,channel,data.
	FormatEvents
	// FormatTimelines has one row per instant: time,<resource>...
	FormatTimelines
)

// File name suffixes that identify a layout.
const (
	EventsSuffix    = "events.csv"
	TimelinesSuffix = "timelines.csv"
)

// Column names with fixed meaning.
const (
	ColumnTime    = "time"
	ColumnChannel = "channel"
	ColumnData    = "data"
)

func (f Format) String() string {
	switch f {
	case FormatEvents:
		return "events"
	case FormatTimelines:
		return "timelines"
	default:
		return "auto"
	}
}

// ParseFormat converts a --input-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "events":
		return FormatEvents, nil
	case "timelines":
		return FormatTimelines, nil
	default:
		return FormatAuto, fmt.Errorf("invalid input format '%s': must be auto, events or timelines", s)
	}
}

// DetectFormat infers the layout from a file name. ok is false when neither
// suffix matches, in which case events is returned as the most likely layout.
func DetectFormat(name string) (format Format, ok bool) {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasSuffix(base, TimelinesSuffix):
		return FormatTimelines, true
	case strings.HasSuffix(base, EventsSuffix):
		return FormatEvents, true
	default:
		return FormatEvents, false
	}
}

// Result is a read table plus any soft warnings raised while reading it.
type Result struct {
	Table    *model.Table
	Format   Format
	Warnings []string
}

// Reader loads batch CSV files into time-indexed tables.
type Reader struct {
	format Format
}

// NewReader creates a reader. FormatAuto detects the layout per file.
func NewReader(format Format) *Reader {
	return &Reader{format: format}
}

// ReadFile reads the CSV at path, keeping only the named resources.
func (r *Reader) ReadFile(path string, resources []string) (*Result, error) {
	util.LogInfo(fmt.Sprintf("Reading %s", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return r.Read(file, path, resources)
}

// Read reads CSV rows from in. name is only used to detect the layout and
// in messages.
func (r *Reader) Read(in io.Reader, name string, resources []string) (*Result, error) {
	result := &Result{Format: r.format}
	if result.Format == FormatAuto {
		format, ok := DetectFormat(name)
		if !ok {
			warning := fmt.Sprintf("could not infer format of %s from its name (expected *%s or *%s), assuming %s",
				name, EventsSuffix, TimelinesSuffix, format)
			util.LogWarn(warning)
			result.Warnings = append(result.Warnings, warning)
		}
		result.Format = format
	}

	wanted := make(map[string]bool, len(resources))
	for _, res := range resources {
		wanted[res] = true
	}

	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty CSV file", name)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	var table *model.Table
	switch result.Format {
	case FormatTimelines:
		table, err = readTimelines(cr, header, wanted)
	default:
		table, err = readEvents(cr, header, wanted)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	util.LogDebug(fmt.Sprintf("Read %s as %s: %d instants, %d columns",
		name, result.Format, len(table.Index), len(table.Columns())))

	result.Table = table
	return result, nil
}

// columnIndex maps header names to positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, exists := idx[h]; !exists {
			idx[h] = i
		}
	}
	return idx
}

func requireColumns(idx map[string]int, names ...string) error {
	for _, n := range names {
		if _, ok := idx[n]; !ok {
			return fmt.Errorf("%w '%s'", model.ErrMissingColumn, n)
		}
	}
	return nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseRowTime(raw string, line int) (time.Time, error) {
	t, err := parser.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("line %d: %w", line, err)
	}
	return t, nil
}
