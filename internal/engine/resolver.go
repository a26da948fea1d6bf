package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/grammar"
)

var (
	// ErrNoHoliday means an unranged title names no known holiday.
	ErrNoHoliday = errors.New(config.ErrHolidayNotFound)

	// ErrUnresolvable means neither side of a range produced a date.
	ErrUnresolvable = errors.New(config.ErrRangeUnresolved)

	// ErrPartial means exactly one side of a range produced a date.
	ErrPartial = errors.New(config.ErrRangePartial)
)

// Resolution is a concrete display window at UTC day granularity.
// For a single-day match Start and End are equal and Single is set.
type Resolution struct {
	Start  time.Time
	End    time.Time
	Single bool
}

// Days returns the number of calendar days covered, bounds included.
func (r Resolution) Days() int {
	return int((r.End.Unix()-r.Start.Unix())/int64(config.DayDuration/time.Second)) + 1
}

// Inverted reports whether the window ends before it starts.
func (r Resolution) Inverted() bool {
	return r.End.Before(r.Start)
}

// Resolve turns a parsed title into a window using the holiday table.
func Resolve(intent grammar.Intent, table HolidayTable) (Resolution, error) {
	if intent.Kind == grammar.KindUnranged {
		day, ok := table.Lookup(intent.Name)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %q", ErrNoHoliday, intent.Name)
		}
		return Resolution{Start: day, End: day, Single: true}, nil
	}

	startAnchor, startOK := anchorDate(intent.Start, table)
	endAnchor, endOK := anchorDate(intent.End, table)

	start, hasStart := resolveSide(intent.Start, startAnchor, startOK, endAnchor, endOK, -1)
	end, hasEnd := resolveSide(intent.End, endAnchor, endOK, startAnchor, startOK, 1)

	switch {
	case !hasStart && !hasEnd:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnresolvable, intent.String())
	case !hasStart || !hasEnd:
		return Resolution{}, fmt.Errorf("%w: %q", ErrPartial, intent.String())
	}
	return Resolution{Start: start, End: end}, nil
}

// anchorDate returns the raw holiday date of an anchor spec, ignoring its offset.
func anchorDate(s grammar.Spec, table HolidayTable) (time.Time, bool) {
	if s.Kind != grammar.SpecAnchor {
		return time.Time{}, false
	}
	return table.Lookup(s.Name)
}

// resolveSide picks the first applicable rule for one side of a range:
// its own anchor shifted by its own offset, then a bare day count applied
// to the opposite anchor (subtracted on the start side, added on the end
// side), then its own anchor unmodified.
func resolveSide(own grammar.Spec, ownDate time.Time, ownOK bool, otherDate time.Time, otherOK bool, direction int) (time.Time, bool) {
	switch {
	case ownOK && own.HasOffset:
		return AddDays(ownDate, own.Offset), true
	case own.Kind == grammar.SpecNumeric && otherOK:
		return AddDays(otherDate, direction*own.Days), true
	case ownOK:
		return ownDate, true
	}
	return time.Time{}, false
}
