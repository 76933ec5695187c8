package parser

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// ErrIncompleteReport is returned for a report line without a channel, time
// or numeric data field.
var ErrIncompleteReport = errors.New("incomplete report")

type reportLine struct {
	Channel *string  `json:"channel"`
	Time    *string  `json:"time"`
	Data    *float64 `json:"data"`
}

// ParseReport decodes one live-stream line {"channel", "time", "data"}.
// data must be a JSON number.
func ParseReport(line []byte) (model.Report, error) {
	var rl reportLine
	if err := sonic.Unmarshal(line, &rl); err != nil {
		return model.Report{}, fmt.Errorf("invalid report: %w", err)
	}
	if rl.Channel == nil || rl.Time == nil || rl.Data == nil {
		return model.Report{}, ErrIncompleteReport
	}

	ts, err := ParseTimestamp(*rl.Time)
	if err != nil {
		return model.Report{}, err
	}

	return model.Report{
		Channel: *rl.Channel,
		Time:    ts,
		Data:    *rl.Data,
	}, nil
}
