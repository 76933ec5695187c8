package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTimeProvider() {
	mu.Lock()
	globalTimeProvider = nil
	mu.Unlock()
}

func TestInitializeTimeProvider(t *testing.T) {
	defer resetTimeProvider()

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty defaults to UTC", "", false},
		{"UTC", "UTC", false},
		{"local", "Local", false},
		{"named zone", "America/New_York", false},
		{"invalid", "Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetTimeProviderDefaultsToUTC(t *testing.T) {
	resetTimeProvider()
	defer resetTimeProvider()

	assert.Equal(t, time.UTC, GetTimeProvider().Location())
}

func TestFormatDisplayTime(t *testing.T) {
	defer resetTimeProvider()
	require.NoError(t, InitializeTimeProvider("America/New_York"))

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01 07:00:00", FormatDisplayTime(ts))
	assert.Equal(t, "-", FormatDisplayTime(time.Time{}))
}
