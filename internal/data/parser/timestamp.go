package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-timeline-view/internal/core/model"
)

// Timestamp layouts accepted in CSV files, plans and live reports. The
// fractional part carries one to six digits.
const (
	LayoutSeconds      = "2006-01-02T15:04:05Z"
	LayoutMicroseconds = "2006-01-02T15:04:05.999999Z"
)

const maxFractionDigits = 6

// ParseTimestamp parses s as a UTC instant in one of the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	layout := LayoutSeconds
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		digits := len(s) - dot - 2 // excludes the dot and the trailing Z
		if digits < 1 || digits > maxFractionDigits {
			return time.Time{}, fmt.Errorf("%w '%s'", model.ErrInvalidTimestamp, s)
		}
		layout = LayoutMicroseconds
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w '%s'", model.ErrInvalidTimestamp, s)
	}
	return t, nil
}

// FormatTimestamp renders t with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
