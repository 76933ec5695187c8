package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

type timelineRow struct {
	time  time.Time
	cells []model.Cell
}

// readTimelines reads time,<resource>... rows. Only wanted columns are kept;
// empty cells stay unset.
func readTimelines(cr *csv.Reader, header []string, wanted map[string]bool) (*model.Table, error) {
	idx := columnIndex(header)
	if err := requireColumns(idx, ColumnTime); err != nil {
		return nil, err
	}
	timeCol := idx[ColumnTime]

	var names []string
	for name := range idx {
		if name != ColumnTime && wanted[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	positions := make([]int, len(names))
	for i, name := range names {
		positions[i] = idx[name]
	}

	var rows []timelineRow
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseRowTime(field(record, timeCol), line)
		if err != nil {
			return nil, err
		}

		cells := make([]model.Cell, len(positions))
		for i, pos := range positions {
			if v := field(record, pos); v != "" {
				cells[i] = model.Cell{Value: v, Valid: true}
			}
		}
		rows = append(rows, timelineRow{time: ts, cells: cells})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].time.Before(rows[j].time) })

	index := make([]time.Time, len(rows))
	for i, r := range rows {
		index[i] = r.time
	}
	table := model.NewTable(index)
	for c, name := range names {
		col := make([]model.Cell, len(rows))
		for i, r := range rows {
			col[i] = r.cells[c]
		}
		table.SetColumn(name, col)
	}
	return table, nil
}
