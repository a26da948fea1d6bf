package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/zalando/go-keyring"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"ScreenlyPlaylistsPath", config.ScreenlyPlaylistsPath},
		{"CalendarificHolidays", config.CalendarificHolidays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestPredicateFormats pins the wire format expected by the signage platform.
func TestPredicateFormats(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.PredicateSingleFormat, "TRUE AND "))
	assert.True(t, strings.HasPrefix(config.PredicateRangeFormat, "TRUE AND "))
	assert.Equal(t, 24*time.Hour, config.DayDuration)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Holisync/"), "UserAgent must start with AppName/")
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.DefaultAPIRequestLimit, 0)
}

func TestLoad_FromEnvironment(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvScreenlyToken, "screenly-secret")
	t.Setenv(config.EnvCalendarificToken, "calendarific-secret")
	t.Setenv("HOLISYNC_COUNTRY", "ca")
	t.Setenv("HOLISYNC_YEAR", "2025")
	t.Setenv("HOLISYNC_DRY_RUN", "true")
	t.Setenv("HOLISYNC_SCREENLY_URL", "http://localhost:9000/")

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "screenly-secret", s.ScreenlyToken)
	assert.Equal(t, "calendarific-secret", s.CalendarificToken)
	assert.Equal(t, "CA", s.Country)
	assert.Equal(t, 2025, s.Year)
	assert.True(t, s.DryRun)
	assert.Equal(t, "http://localhost:9000", s.ScreenlyURL, "trailing slash must be trimmed")
	assert.Equal(t, config.DefaultCalendarificURL, s.CalendarificURL)
	assert.Equal(t, config.HolidaySourceCalendarific, s.HolidaySource)
	assert.Equal(t, config.DefaultRefreshMin, s.IntervalMin)
	assert.NoError(t, s.Validate())
}

func TestLoad_InvalidValues(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvScreenlyToken, "screenly-secret")
	t.Setenv("HOLISYNC_YEAR", "next")
	t.Setenv("HOLISYNC_INTERVAL", "hourly")
	t.Setenv("HOLISYNC_DRY_RUN", "maybe")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidSetting)
	assert.Contains(t, err.Error(), config.KeyYear)
	assert.Contains(t, err.Error(), config.KeyInterval)
	assert.Contains(t, err.Error(), config.KeyDryRun)
}

func TestLoad_KeyringFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvScreenlyToken, "")
	t.Setenv(config.EnvCalendarificToken, "")

	require.NoError(t, config.StoreSecret(config.SecretScreenly, "from-keyring"))

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "from-keyring", s.ScreenlyToken)
	assert.Empty(t, s.CalendarificToken)

	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvCalendarificToken)
	assert.NotContains(t, err.Error(), config.EnvScreenlyToken)
}

func TestStoreSecret_UnknownName(t *testing.T) {
	keyring.MockInit()
	err := config.StoreSecret("dropbox", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrUnknownSecret)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings config.Settings
		wantErr  []string
	}{
		{
			name: "Calendarific complete",
			settings: config.Settings{
				ScreenlyToken: "a", CalendarificToken: "b",
				HolidaySource: config.HolidaySourceCalendarific, Country: "US",
			},
		},
		{
			name:     "Missing both tokens",
			settings: config.Settings{HolidaySource: config.HolidaySourceCalendarific, Country: "US"},
			wantErr:  []string{config.EnvScreenlyToken, config.EnvCalendarificToken},
		},
		{
			name:     "Offline does not need Calendarific",
			settings: config.Settings{ScreenlyToken: "a", HolidaySource: config.HolidaySourceOffline, Country: "US"},
		},
		{
			name:     "Offline rejects other countries",
			settings: config.Settings{ScreenlyToken: "a", HolidaySource: config.HolidaySourceOffline, Country: "FR"},
			wantErr:  []string{config.ErrOfflineCountry},
		},
		{
			name:     "Unknown source",
			settings: config.Settings{ScreenlyToken: "a", HolidaySource: "ical", Country: "US"},
			wantErr:  []string{config.ErrUnknownSource},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, config.ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, config.ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, config.ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, config.ParseLogLevel(""))
}
