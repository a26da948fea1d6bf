package daemon

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (d *Daemon) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	d.SupportedLanguages = detectedLangs
	d.I18nBundle = bundle
	d.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator from the configured language.
func (d *Daemon) UpdateLocalizer() {
	if d.I18nBundle == nil {
		return
	}
	lang := d.Settings.Language
	if lang == "" {
		lang = config.DefaultLanguage
	}
	d.Localizer = i18n.NewLocalizer(d.I18nBundle, lang, config.DefaultLanguage)
}

// localize translates lc, returning fallback when no translation applies.
func (d *Daemon) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if d.Localizer == nil {
		return fallback
	}
	msg, err := d.Localizer.Localize(lc)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}

// eventFormatter returns a closure that localizes calendar events.
func (d *Daemon) eventFormatter() engine.EventFormatter {
	return func(w engine.Window) (string, string) {
		var summary string
		if w.Single {
			summary = d.localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyEvtSummary,
				TemplateData: map[string]interface{}{"Title": w.Title},
			}, fmt.Sprintf(config.FallbackSummary, w.Title))
		} else {
			days := w.Days()
			summary = d.localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyEvtSummaryRange,
				TemplateData: map[string]interface{}{"Title": w.Title, "Days": days},
				PluralCount:  days,
			}, fmt.Sprintf(config.FallbackSummaryRange, w.Title, days))
		}

		description := d.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtDescription,
			TemplateData: map[string]interface{}{"Predicate": w.Predicate},
		}, fmt.Sprintf(config.FallbackDescription, w.Predicate))

		return summary, description
	}
}
