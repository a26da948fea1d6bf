package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/engine"
	"github.com/zalando/go-keyring"
)

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{"-country", "ca", "-year", "2030", "-dry-run"})
	require.NoError(t, err)

	s := config.Settings{Country: "US", Year: config.CurrentYear}
	opts.apply(&s)

	assert.Equal(t, "CA", s.Country)
	assert.Equal(t, 2030, s.Year)
	assert.True(t, s.DryRun)
}

func TestParseFlags_DefaultsKeepSettings(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)

	s := config.Settings{Country: "FR", Year: 2027, DryRun: true}
	opts.apply(&s)

	assert.Equal(t, config.Settings{Country: "FR", Year: 2027, DryRun: true}, s)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestNewHolidayProvider(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	p, err := newHolidayProvider(config.Settings{HolidaySource: config.HolidaySourceOffline}, fetcher)
	require.NoError(t, err)
	assert.IsType(t, &engine.OfflineProvider{}, p)

	_, err = newHolidayProvider(config.Settings{HolidaySource: config.HolidaySourceCalendarific}, fetcher)
	assert.Error(t, err, "missing token must be rejected")

	_, err = newHolidayProvider(config.Settings{HolidaySource: "ics"}, fetcher)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrUnknownSource)
}

func TestRun_OneShot(t *testing.T) {
	calendarific := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"holidays":[
			{"name":"Christmas Day","date":{"iso":"2025-12-25"}}
		]}}`))
	}))
	defer calendarific.Close()

	var mu sync.Mutex
	patched := map[string]string{}
	screenly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[
				{"id":"x1","title":"Christmas Day","predicate":"","is_enabled":true},
				{"id":"x2","title":"Lobby","predicate":"","is_enabled":true}
			]`))
		case http.MethodPatch:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			patched[r.URL.Path] = body["predicate"]
			mu.Unlock()
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer screenly.Close()

	settings := config.Settings{
		ScreenlyToken:     "s",
		CalendarificToken: "c",
		ScreenlyURL:       screenly.URL,
		CalendarificURL:   calendarific.URL,
		Country:           "US",
		Year:              2025,
		HolidaySource:     config.HolidaySourceCalendarific,
		IntervalMin:       config.DefaultRefreshMin,
	}

	require.NoError(t, run(context.Background(), settings, false))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]string{
		"/api/v3/playlists/x1/": "TRUE AND ($DATE = 1766620800000)",
	}, patched)
}

func TestStoreToken_FromPipe(t *testing.T) {
	keyring.MockInit()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, _ = w.WriteString("  tok-123\n")
	_ = w.Close()
	defer func() { _ = r.Close() }()

	var out bytes.Buffer
	require.NoError(t, storeToken(config.SecretScreenly, r, &out))
	assert.Contains(t, out.String(), config.SecretScreenly)

	stored, err := keyring.Get(config.KeyringService, config.SecretScreenly)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", stored)
}

func TestStoreToken_Empty(t *testing.T) {
	keyring.MockInit()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_ = w.Close()
	defer func() { _ = r.Close() }()

	var out bytes.Buffer
	assert.Error(t, storeToken(config.SecretCalendarific, r, &out))
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out)
	assert.Contains(t, out.String(), config.AppName)
	assert.Contains(t, out.String(), config.Version)
}
