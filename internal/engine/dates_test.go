package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShiftISO_RoundTrip checks that shifting by N days always moves the
// epoch by exactly N*86400000 ms, across DST dates and year boundaries.
func TestShiftISO_RoundTrip(t *testing.T) {
	dates := []string{"2025-01-01", "2025-03-09", "2025-11-02", "2024-02-28", "2025-12-31"}
	offsets := []int{-200000, -106752, -400, -31, -1, 0, 1, 2, 10, 365, 106751, 106752, 200000}

	for _, iso := range dates {
		base, err := ParseISODate(iso)
		require.NoError(t, err)

		for _, n := range offsets {
			shifted, err := ShiftISO(iso, n)
			require.NoError(t, err)
			assert.Equal(t, EpochMillis(base)+int64(n)*86400000, EpochMillis(shifted), "%s %+d", iso, n)

			h, m, s := shifted.Clock()
			assert.Zero(t, h+m+s, "time of day must stay at midnight")
			assert.Equal(t, time.UTC, shifted.Location())
		}
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"Plain date", "2025-07-04", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), false},
		{"With time and offset", "2025-03-09T02:00:00-05:00", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), false},
		{"Leap day", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"Garbage", "tomorrow", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
		{"Invalid day", "2025-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISODate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEpochMillis_KnownValues(t *testing.T) {
	assert.Equal(t, int64(0), EpochMillis(time.Unix(0, 0)))
	assert.Equal(t, int64(1735689600000), EpochMillis(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// The same instant expressed in another zone yields the same value.
	ny := time.FixedZone("EST", -5*3600)
	assert.Equal(t, int64(1735689600000), EpochMillis(time.Date(2024, 12, 31, 19, 0, 0, 0, ny)))
}
