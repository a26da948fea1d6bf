package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/tartampluch/go-holisync/internal/config"
)

// HolidayTable maps a holiday name to its ISO calendar date. It is built once
// per run and treated as read-only afterwards.
type HolidayTable map[string]string

// Lookup returns the UTC midnight date of the named holiday. Names are
// matched verbatim. Malformed dates are reported as absent.
func (h HolidayTable) Lookup(name string) (time.Time, bool) {
	iso, ok := h[name]
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseISODate(iso)
	if err != nil {
		slog.Debug(config.MsgBadHolidayDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, name,
			config.LogKeyValue, iso)
		return time.Time{}, false
	}
	return t, true
}

// HolidayProvider returns the holiday table of a country for a given year.
type HolidayProvider interface {
	ListHolidays(ctx context.Context, country string, year int) (HolidayTable, error)
}

// -----------------------------------------------------------------------------
// Calendarific
// -----------------------------------------------------------------------------

// CalendarificProvider reads holidays from the Calendarific v2 API.
type CalendarificProvider struct {
	Fetcher *HTTPFetcher
	BaseURL string
	token   string
}

// NewCalendarificProvider validates the token and returns a provider.
func NewCalendarificProvider(fetcher *HTTPFetcher, baseURL, token string) (*CalendarificProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("%s: %s", config.ErrMissingToken, config.EnvCalendarificToken)
	}
	return &CalendarificProvider{Fetcher: fetcher, BaseURL: baseURL, token: token}, nil
}

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name string `json:"name"`
			Date struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

// ListHolidays fetches the holidays of country for year. When a name appears
// several times the last entry wins.
func (p *CalendarificProvider) ListHolidays(ctx context.Context, country string, year int) (HolidayTable, error) {
	query := url.Values{}
	query.Set(config.CalendarificParamKey, p.token)
	query.Set(config.CalendarificParamCtry, country)
	query.Set(config.CalendarificParamYear, strconv.Itoa(year))

	body, err := p.Fetcher.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    p.BaseURL + config.CalendarificHolidays + "?" + query.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHolidayFetch, err)
	}
	defer func() { _ = body.Close() }()

	var payload calendarificResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", config.ErrHolidayFetch, config.ErrDecode, err)
	}

	table := make(HolidayTable, len(payload.Response.Holidays))
	for _, h := range payload.Response.Holidays {
		if h.Name == "" || h.Date.ISO == "" {
			continue
		}
		table[h.Name] = h.Date.ISO
	}
	return table, nil
}

// -----------------------------------------------------------------------------
// Offline
// -----------------------------------------------------------------------------

// ErrOfflineCountry is returned by OfflineProvider for countries it does not know.
var ErrOfflineCountry = errors.New(config.ErrOfflineCountry)

// OfflineProvider computes US federal holidays locally, without any API key.
type OfflineProvider struct {
	Holidays []*cal.Holiday
}

// NewOfflineProvider returns a provider for the US federal calendar.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{
		Holidays: []*cal.Holiday{
			us.NewYear,
			us.MlkDay,
			us.PresidentsDay,
			us.MemorialDay,
			us.Juneteenth,
			us.IndependenceDay,
			us.LaborDay,
			us.ColumbusDay,
			us.VeteransDay,
			us.ThanksgivingDay,
			us.ChristmasDay,
		},
	}
}

// ListHolidays returns the actual (not observed) date of every known holiday.
func (p *OfflineProvider) ListHolidays(ctx context.Context, country string, year int) (HolidayTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if country != config.OfflineCountry {
		return nil, fmt.Errorf("%w: %q", ErrOfflineCountry, country)
	}

	table := make(HolidayTable, len(p.Holidays))
	for _, h := range p.Holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		table[h.Name] = actual.Format(config.ISODateLayout)
	}
	return table, nil
}
