package util

import (
	"fmt"
	"sync"
	"time"
)

// DisplayTimeLayout is how instants are shown to people.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// TimeProvider converts instants to the display timezone.
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider sets the global display timezone
func InitializeTimeProvider(timezone string) error {
	mu.Lock()
	defer mu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	// Only set the global provider if successful
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider, defaulting to UTC since
// telemetry timestamps are UTC.
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	defer mu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.UTC}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone. Empty means UTC.
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.UTC
	switch timezone {
	case "", "UTC":
	case "Local":
		loc = time.Local
	default:
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: UTC, Local, America/Los_Angeles, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Location returns the configured timezone.
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// In converts a time to the configured timezone
func (tp *TimeProvider) In(t time.Time) time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location)
}

// Format formats a time according to the layout in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return t.In(tp.location).Format(layout)
}

// FormatDisplayTime formats t with DisplayTimeLayout in the global timezone.
// The zero time renders as "-".
func FormatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return GetTimeProvider().Format(t, DisplayTimeLayout)
}
