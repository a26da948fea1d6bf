package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-holisync/internal/config"
)

// EventFormatter builds the summary and description of a window's event.
// The daemon injects a localized implementation.
type EventFormatter func(w Window) (summary, description string)

// BuildCalendar renders the resolved windows as an iCalendar feed of all-day
// events, so operators can preview when each playlist is shown.
func BuildCalendar(windows []Window, now time.Time, format EventFormatter) ([]byte, error) {
	if len(windows) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	if format == nil {
		format = defaultEventFormat
	}

	for _, w := range windows {
		if w.Inverted() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, w.PlaylistID, w.Start.Year(), config.ICalDomain))
		event.Props.Set(dtStampProp)

		summary, description := format(w)
		event.Props.SetText(config.PropSummary, summary)
		if description != "" {
			event.Props.SetText(config.PropDescription, description)
		}

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(w.Start)
		event.Props.Set(dtStart)

		// DTEND is exclusive for all-day events.
		dtEnd := ical.NewProp(config.PropDTEnd)
		dtEnd.SetDate(AddDays(w.End, 1))
		event.Props.Set(dtEnd)

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func defaultEventFormat(w Window) (string, string) {
	summary := fmt.Sprintf(config.FallbackSummary, w.Title)
	if !w.Single {
		summary = fmt.Sprintf(config.FallbackSummaryRange, w.Title, w.Days())
	}
	return summary, fmt.Sprintf(config.FallbackDescription, w.Predicate)
}
