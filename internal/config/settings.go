package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// Settings is the process configuration, built once at startup and passed
// explicitly to the clients that need it.
type Settings struct {
	ScreenlyToken     string
	CalendarificToken string
	ScreenlyURL       string
	CalendarificURL   string
	Country           string
	Year              int // CurrentYear means "resolve at run time"
	HolidaySource     string
	DryRun            bool
	IntervalMin       int
	Port              string
	Language          string
	LogLevel          string
}

// Load reads the settings from the environment. Tokens missing from the
// environment are looked up in the OS keyring. Values that do not convert
// to their setting's type are reported instead of silently zeroed.
func Load() (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyScreenlyURL, DefaultScreenlyURL)
	v.SetDefault(KeyCalendarificURL, DefaultCalendarificURL)
	v.SetDefault(KeyCountry, DefaultCountry)
	v.SetDefault(KeyYear, CurrentYear)
	v.SetDefault(KeyHolidaySource, HolidaySourceCalendarific)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyInterval, DefaultRefreshMin)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	_ = v.BindEnv(KeyScreenlyToken, EnvScreenlyToken, "HOLISYNC_SCREENLY_TOKEN")
	_ = v.BindEnv(KeyCalendarificToken, EnvCalendarificToken, "HOLISYNC_CALENDARIFIC_TOKEN")
	_ = v.BindEnv(KeyScreenlyURL, "HOLISYNC_SCREENLY_URL")
	_ = v.BindEnv(KeyCalendarificURL, "HOLISYNC_CALENDARIFIC_URL")
	_ = v.BindEnv(KeyCountry, "HOLISYNC_COUNTRY")
	_ = v.BindEnv(KeyYear, "HOLISYNC_YEAR")
	_ = v.BindEnv(KeyHolidaySource, "HOLISYNC_HOLIDAY_SOURCE")
	_ = v.BindEnv(KeyDryRun, "HOLISYNC_DRY_RUN")
	_ = v.BindEnv(KeyInterval, "HOLISYNC_INTERVAL")
	_ = v.BindEnv(KeyPort, "HOLISYNC_PORT", "PORT")
	_ = v.BindEnv(KeyLanguage, "HOLISYNC_LANGUAGE")
	_ = v.BindEnv(KeyLogLevel, "HOLISYNC_LOG_LEVEL", "LOG_LEVEL")

	var errs []error
	year, err := cast.ToIntE(v.Get(KeyYear))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s %s: %w", ErrInvalidSetting, KeyYear, err))
	}
	interval, err := cast.ToIntE(v.Get(KeyInterval))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s %s: %w", ErrInvalidSetting, KeyInterval, err))
	}
	dryRun, err := cast.ToBoolE(v.Get(KeyDryRun))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s %s: %w", ErrInvalidSetting, KeyDryRun, err))
	}
	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}

	s := Settings{
		ScreenlyToken:     strings.TrimSpace(v.GetString(KeyScreenlyToken)),
		CalendarificToken: strings.TrimSpace(v.GetString(KeyCalendarificToken)),
		ScreenlyURL:       strings.TrimRight(v.GetString(KeyScreenlyURL), "/"),
		CalendarificURL:   strings.TrimRight(v.GetString(KeyCalendarificURL), "/"),
		Country:           strings.ToUpper(strings.TrimSpace(v.GetString(KeyCountry))),
		Year:              year,
		HolidaySource:     strings.ToLower(strings.TrimSpace(v.GetString(KeyHolidaySource))),
		DryRun:            dryRun,
		IntervalMin:       interval,
		Port:              strings.TrimSpace(v.GetString(KeyPort)),
		Language:          v.GetString(KeyLanguage),
		LogLevel:          v.GetString(KeyLogLevel),
	}

	if s.ScreenlyToken == "" {
		s.ScreenlyToken = lookupSecret(SecretScreenly)
	}
	if s.CalendarificToken == "" {
		s.CalendarificToken = lookupSecret(SecretCalendarific)
	}
	if s.IntervalMin <= 0 {
		s.IntervalMin = DefaultRefreshMin
	}

	return s, nil
}

// Validate reports configuration errors that must abort the run before any
// network call is made.
func (s Settings) Validate() error {
	var errs []error

	if s.ScreenlyToken == "" {
		errs = append(errs, fmt.Errorf("%s: %s", ErrMissingToken, EnvScreenlyToken))
	}

	switch s.HolidaySource {
	case HolidaySourceCalendarific:
		if s.CalendarificToken == "" {
			errs = append(errs, fmt.Errorf("%s: %s", ErrMissingToken, EnvCalendarificToken))
		}
	case HolidaySourceOffline:
		if s.Country != OfflineCountry {
			errs = append(errs, fmt.Errorf("%s: %q", ErrOfflineCountry, s.Country))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: %q", ErrUnknownSource, s.HolidaySource))
	}

	return errors.Join(errs...)
}

// StoreSecret saves a token in the OS keyring under one of the known secret names.
func StoreSecret(name, token string) error {
	if name != SecretScreenly && name != SecretCalendarific {
		return fmt.Errorf("%s: %q", ErrUnknownSecret, name)
	}
	if err := keyring.Set(KeyringService, name, token); err != nil {
		return fmt.Errorf("%s: %w", ErrKeyringStore, err)
	}
	return nil
}

// ParseLogLevel maps a textual level to slog.Level, defaulting to Info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func lookupSecret(name string) string {
	token, err := keyring.Get(KeyringService, name)
	if err != nil {
		slog.Debug(MsgKeyringMiss,
			LogKeyComponent, CompConfig,
			LogKeySecret, name,
			LogKeyError, err)
		return ""
	}
	slog.Debug(MsgKeyringFallback,
		LogKeyComponent, CompConfig,
		LogKeySecret, name)
	return strings.TrimSpace(token)
}
