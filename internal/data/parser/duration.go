package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts Go duration syntax ("90s", "1h30m") and the
// simulation clock syntax "HH:MM:SS[.ffffff]", where hours may exceed 24 and
// a leading '-' negates the whole value.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !strings.Contains(s, ":") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration '%s': %w", s, err)
		}
		return d, nil
	}
	return parseClockDuration(s)
}

func parseClockDuration(s string) (time.Duration, error) {
	negative := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")

	parts := strings.Split(body, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration '%s': expected HH:MM:SS[.ffffff]", s)
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid duration '%s': bad hours", s)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid duration '%s': bad minutes", s)
	}

	secPart, fracPart, hasFrac := strings.Cut(parts[2], ".")
	seconds, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid duration '%s': bad seconds", s)
	}

	var micros int64
	if hasFrac {
		if len(fracPart) == 0 || len(fracPart) > 6 {
			return 0, fmt.Errorf("invalid duration '%s': bad fraction", s)
		}
		padded := fracPart + strings.Repeat("0", 6-len(fracPart))
		micros, err = strconv.ParseInt(padded, 10, 64)
		if err != nil || micros < 0 {
			return 0, fmt.Errorf("invalid duration '%s': bad fraction", s)
		}
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(micros)*time.Microsecond
	if negative {
		d = -d
	}
	return d, nil
}
