package engine

import (
	"time"

	"github.com/tartampluch/go-holisync/internal/config"
)

// ParseISODate reads the leading YYYY-MM-DD of an ISO 8601 value as a UTC
// midnight instant. Any time or zone suffix is ignored.
func ParseISODate(iso string) (time.Time, error) {
	if len(iso) > config.ISODateLength {
		iso = iso[:config.ISODateLength]
	}
	return time.ParseInLocation(config.ISODateLayout, iso, time.UTC)
}

// AddDays shifts a UTC instant by n calendar days. UTC has no DST, so this
// is exactly n*24h for any n, including shifts beyond time.Duration's range.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}

// ShiftISO parses iso and shifts it by n days.
func ShiftISO(iso string, n int) (time.Time, error) {
	t, err := ParseISODate(iso)
	if err != nil {
		return time.Time{}, err
	}
	return AddDays(t, n), nil
}

// EpochMillis returns the Unix timestamp of t in milliseconds.
func EpochMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}
