package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
	"github.com/penwyp/go-timeline-view/internal/util"
)

type event struct {
	time    time.Time
	channel string
	data    string
}

type eventKey struct {
	unixNano int64
	channel  string
}

// readEvents pivots time,channel,data rows into one column per channel.
// Repeated (time, channel) pairs keep the last data value. Cells with no
// event stay unset.
func readEvents(cr *csv.Reader, header []string, wanted map[string]bool) (*model.Table, error) {
	idx := columnIndex(header)
	if err := requireColumns(idx, ColumnTime, ColumnChannel, ColumnData); err != nil {
		return nil, err
	}
	timeCol, channelCol, dataCol := idx[ColumnTime], idx[ColumnChannel], idx[ColumnData]

	var events []event
	positions := make(map[eventKey]int)
	duplicates := 0
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

		channel := field(record, channelCol)
		if !wanted[channel] {
			continue
		}

		ts, err := parseRowTime(field(record, timeCol), line)
		if err != nil {
			return nil, err
		}

		key := eventKey{unixNano: ts.UnixNano(), channel: channel}
		data := field(record, dataCol)
		if pos, seen := positions[key]; seen {
			events[pos].data = data
			duplicates++
			continue
		}
		positions[key] = len(events)
		events = append(events, event{time: ts, channel: channel, data: data})
	}

	if duplicates > 0 {
		util.LogDebug(fmt.Sprintf("Settled %d repeated (time, channel) events", duplicates))
	}

	return pivotEvents(events), nil
}

func pivotEvents(events []event) *model.Table {
	times := make([]time.Time, 0, len(events))
	seenTimes := make(map[int64]bool, len(events))
	for _, e := range events {
		if !seenTimes[e.time.UnixNano()] {
			seenTimes[e.time.UnixNano()] = true
			times = append(times, e.time)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	row := make(map[int64]int, len(times))
	for i, t := range times {
		row[t.UnixNano()] = i
	}

	columns := make(map[string][]model.Cell)
	for _, e := range events {
		col, ok := columns[e.channel]
		if !ok {
			col = make([]model.Cell, len(times))
			columns[e.channel] = col
		}
		col[row[e.time.UnixNano()]] = model.Cell{Value: e.data, Valid: true}
	}

	table := model.NewTable(times)
	for channel, cells := range columns {
		table.SetColumn(channel, cells)
	}
	return table
}
