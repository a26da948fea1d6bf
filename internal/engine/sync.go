package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/grammar"
	"github.com/tartampluch/go-holisync/internal/metrics"
)

// SyncConfig contains the parameters of one synchronization run.
type SyncConfig struct {
	Country string
	Year    int  // config.CurrentYear picks the clock's UTC year at run time
	DryRun  bool // compute predicates without updating playlists
}

// Outcome is the result of processing one playlist.
type Outcome string

const (
	OutcomeUpdated      Outcome = "updated"
	OutcomeDryRun       Outcome = "dry_run"
	OutcomeUnchanged    Outcome = "unchanged"
	OutcomeDisabled     Outcome = "disabled"
	OutcomeMissingID    Outcome = "missing_id"
	OutcomeMismatch     Outcome = "mismatch"
	OutcomeUnresolvable Outcome = "unresolvable"
	OutcomePartial      Outcome = "partial"
	OutcomeNoMatch      Outcome = "no_match"
	OutcomeFailed       Outcome = "failed"
)

// Window is a playlist whose title resolved to a display window.
type Window struct {
	PlaylistID string
	Title      string
	Predicate  string
	Resolution
}

// Report summarizes a run.
type Report struct {
	Country  string
	Year     int
	Holidays int
	Outcomes map[Outcome]int
	Windows  []Window
}

// Count returns how many playlists ended with outcome o.
func (r Report) Count(o Outcome) int {
	return r.Outcomes[o]
}

// Syncer drives one run: holidays and playlists are fetched, then every
// playlist goes through parse, resolve, compile and submit in turn. A
// failure on one playlist never stops the others.
type Syncer struct {
	Clock     Clock
	Holidays  HolidayProvider
	Playlists PlaylistStore
}

// Run executes a synchronization. Upstream failures are logged and treated
// as empty data; only context cancellation cuts a run short.
func (s *Syncer) Run(ctx context.Context, cfg SyncConfig) Report {
	start := time.Now()

	year := cfg.Year
	if year == config.CurrentYear {
		year = s.clock().Now().UTC().Year()
	}

	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCountry, cfg.Country,
		config.LogKeyYear, year,
		config.LogKeyDryRun, cfg.DryRun,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	report := Report{
		Country:  cfg.Country,
		Year:     year,
		Outcomes: make(map[Outcome]int),
	}

	table, err := s.Holidays.ListHolidays(ctx, cfg.Country, year)
	if err != nil {
		log.ErrorContext(ctx, config.ErrHolidayFetch, config.LogKeyError, err)
		metrics.UpstreamErrorsTotal.WithLabelValues(metrics.ServiceHolidays, metrics.OpList).Inc()
		table = HolidayTable{}
	}
	report.Holidays = len(table)
	metrics.HolidaysLoaded.Set(float64(len(table)))
	log.DebugContext(ctx, config.MsgHolidaysLoaded, config.LogKeyCount, len(table))

	playlists, err := s.Playlists.ListPlaylists(ctx)
	if err != nil {
		log.ErrorContext(ctx, config.ErrPlaylistFetch, config.LogKeyError, err)
		metrics.UpstreamErrorsTotal.WithLabelValues(metrics.ServiceSignage, metrics.OpList).Inc()
		playlists = nil
	}
	log.DebugContext(ctx, config.MsgPlaylistsLoaded, config.LogKeyCount, len(playlists))

	for _, p := range playlists {
		if ctx.Err() != nil {
			break
		}

		outcome, window := s.process(ctx, p, table, cfg.DryRun)
		report.Outcomes[outcome]++
		metrics.PlaylistOutcomesTotal.WithLabelValues(string(outcome)).Inc()
		if window != nil {
			report.Windows = append(report.Windows, *window)
		}
	}

	elapsed := time.Since(start)
	metrics.SyncRunsTotal.Inc()
	metrics.SyncRunDuration.Observe(elapsed.Seconds())
	metrics.SyncLastRunTimestamp.SetToCurrentTime()

	log.InfoContext(ctx, config.MsgSyncFinished,
		config.LogKeyDuration, elapsed.Milliseconds(),
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyUpdated, report.Count(OutcomeUpdated)+report.Count(OutcomeDryRun)),
			slog.Int(config.LogKeyUnchanged, report.Count(OutcomeUnchanged)),
			slog.Int(config.LogKeyDisabled, report.Count(OutcomeDisabled)),
			slog.Int(config.LogKeyMismatch, report.Count(OutcomeMismatch)),
			slog.Int(config.LogKeyUnresolvable, report.Count(OutcomeUnresolvable)),
			slog.Int(config.LogKeyPartial, report.Count(OutcomePartial)),
			slog.Int(config.LogKeyNoMatch, report.Count(OutcomeNoMatch)),
			slog.Int(config.LogKeyFailed, report.Count(OutcomeFailed)),
		),
	)
	return report
}

// process handles a single playlist and returns its outcome together with
// the resolved window, if any.
func (s *Syncer) process(ctx context.Context, p Playlist, table HolidayTable, dryRun bool) (Outcome, *Window) {
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyID, p.ID,
		config.LogKeyTitle, p.Title,
	)

	if !p.IsEnabled {
		log.DebugContext(ctx, config.MsgSkipDisabled)
		return OutcomeDisabled, nil
	}

	intent, err := grammar.Parse(p.Title)
	if err != nil {
		log.WarnContext(ctx, config.MsgSkipMismatch, config.LogKeyError, err)
		return OutcomeMismatch, nil
	}

	res, err := Resolve(intent, table)
	switch {
	case errors.Is(err, ErrNoHoliday):
		log.DebugContext(ctx, config.MsgSkipNoHoliday)
		return OutcomeNoMatch, nil
	case errors.Is(err, ErrUnresolvable):
		log.ErrorContext(ctx, config.MsgSkipUnresolved, config.LogKeyError, err)
		return OutcomeUnresolvable, nil
	case errors.Is(err, ErrPartial):
		log.DebugContext(ctx, config.MsgSkipPartial)
		return OutcomePartial, nil
	case err != nil:
		log.ErrorContext(ctx, config.MsgSkipUnresolved, config.LogKeyError, err)
		return OutcomeUnresolvable, nil
	}

	if res.Inverted() {
		log.WarnContext(ctx, config.MsgInvertedRange,
			config.LogKeyStart, res.Start.Format(config.ISODateLayout),
			config.LogKeyEnd, res.End.Format(config.ISODateLayout))
	}

	predicate := CompilePredicate(res)
	window := &Window{PlaylistID: p.ID, Title: p.Title, Predicate: predicate, Resolution: res}

	if predicate == p.Predicate {
		log.DebugContext(ctx, config.MsgSkipUnchanged, config.LogKeyPredicate, predicate)
		return OutcomeUnchanged, window
	}

	if p.ID == "" {
		log.WarnContext(ctx, config.MsgSkipNoID)
		return OutcomeMissingID, window
	}

	if dryRun {
		log.InfoContext(ctx, config.MsgDryRunUpdate,
			config.LogKeyPredicate, predicate,
			config.LogKeyPrevious, p.Predicate)
		return OutcomeDryRun, window
	}

	if err := s.Playlists.UpdatePredicate(ctx, p.ID, predicate); err != nil {
		log.ErrorContext(ctx, config.MsgUpdateFailed, config.LogKeyError, err)
		metrics.UpstreamErrorsTotal.WithLabelValues(metrics.ServiceSignage, metrics.OpUpdate).Inc()
		return OutcomeFailed, window
	}

	log.InfoContext(ctx, config.MsgPlaylistUpdated,
		config.LogKeyPredicate, predicate,
		config.LogKeyPrevious, p.Predicate)
	return OutcomeUpdated, window
}

func (s *Syncer) clock() Clock {
	if s.Clock == nil {
		return RealClock{}
	}
	return s.Clock
}
