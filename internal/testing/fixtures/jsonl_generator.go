package fixtures

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Event is one row of an events CSV.
type Event struct {
	Time    time.Time
	Channel string
	Data    string
}

// Report is one line of a live stream.
type Report struct {
	Channel string  `json:"channel"`
	Time    string  `json:"time"`
	Data    float64 `json:"data"`
}

// TestDataGenerator writes telemetry fixtures under a base directory
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// FormatTime renders t the way the CSV and stream fixtures expect
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999Z")
}

// RampEvents produces n samples per channel, one every step, with channel i
// carrying the value i*1000 + sample index.
func RampEvents(start time.Time, step time.Duration, n int, channels ...string) []Event {
	events := make([]Event, 0, n*len(channels))
	for s := 0; s < n; s++ {
		ts := start.Add(time.Duration(s) * step)
		for i, ch := range channels {
			events = append(events, Event{
				Time:    ts,
				Channel: ch,
				Data:    strconv.Itoa(i*1000 + s),
			})
		}
	}
	return events
}

// ModeEvents cycles through states, switching every step.
func ModeEvents(channel string, start time.Time, step time.Duration, states ...string) []Event {
	events := make([]Event, len(states))
	for i, st := range states {
		events[i] = Event{Time: start.Add(time.Duration(i) * step), Channel: channel, Data: st}
	}
	return events
}

// WriteEventsCSV writes a time,channel,data file. name should end in
// events.csv for format detection.
func (g *TestDataGenerator) WriteEventsCSV(name string, events []Event) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"time", "channel", "data"}); err != nil {
		return "", err
	}
	for _, ev := range events {
		if err := w.Write([]string{FormatTime(ev.Time), ev.Channel, ev.Data}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return g.writeFile(name, buf.Bytes())
}

// WriteTimelinesCSV writes a time,<column>... file. rows maps each instant to
// its cells in column order; an empty cell means no sample.
func (g *TestDataGenerator) WriteTimelinesCSV(name string, columns []string, index []time.Time, rows [][]string) (string, error) {
	if len(index) != len(rows) {
		return "", fmt.Errorf("index has %d instants but %d rows given", len(index), len(rows))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{"time"}, columns...)); err != nil {
		return "", err
	}
	for i, ts := range index {
		if len(rows[i]) != len(columns) {
			return "", fmt.Errorf("row %d has %d cells, want %d", i, len(rows[i]), len(columns))
		}
		if err := w.Write(append([]string{FormatTime(ts)}, rows[i]...)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return g.writeFile(name, buf.Bytes())
}

// WriteView writes a JSON view description with one resource per name and
// kind pair.
func (g *TestDataGenerator) WriteView(name string, resources map[string]string, order []string) (string, error) {
	type resource struct {
		Name string `json:"name"`
		Kind string `json:"kind,omitempty"`
	}
	view := struct {
		Resources []resource `json:"resources"`
	}{}
	for _, n := range order {
		view.Resources = append(view.Resources, resource{Name: n, Kind: resources[n]})
	}

	data, err := sonic.ConfigStd.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}
	return g.writeFile(name, data)
}

// Stream encodes reports as newline-delimited JSON.
func Stream(reports []Report) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range reports {
		line, err := sonic.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// RampReports is the live counterpart of RampEvents.
func RampReports(start time.Time, step time.Duration, n int, channels ...string) []Report {
	reports := make([]Report, 0, n*len(channels))
	for s := 0; s < n; s++ {
		ts := FormatTime(start.Add(time.Duration(s) * step))
		for i, ch := range channels {
			reports = append(reports, Report{Channel: ch, Time: ts, Data: float64(i*1000 + s)})
		}
	}
	return reports
}

// WriteStream writes reports to a file for follow-mode tests.
func (g *TestDataGenerator) WriteStream(name string, reports []Report) (string, error) {
	data, err := Stream(reports)
	if err != nil {
		return "", err
	}
	return g.writeFile(name, data)
}

func (g *TestDataGenerator) writeFile(name string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write fixture %s: %w", name, err)
	}
	return path, nil
}
